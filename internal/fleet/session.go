package fleet

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gosnmp/gosnmp"
)

// ResultKind classifies the outcome of a single OID fetch.
type ResultKind int

const (
	// ResultValue means the agent returned a usable value.
	ResultValue ResultKind = iota
	// ResultNoSuchObject means the agent answered but does not implement
	// the OID (NoSuchObject, NoSuchInstance, or a Null binding).
	ResultNoSuchObject
	// ResultTimeout means the agent did not answer within the configured
	// timeout, after exhausting retries. The session stays usable.
	ResultTimeout
	// ResultError means the request failed at the session level (socket
	// error, malformed response); further requests are unreliable.
	ResultError
)

// GetResult is the outcome of Session.Get for one OID. Raw holds the
// rendered value when Kind is ResultValue; Err carries the underlying
// error when Kind is ResultTimeout or ResultError.
type GetResult struct {
	Kind ResultKind
	Raw  string
	Err  error
}

// Session is a connection to a single SNMP agent. Implementations are not
// safe for concurrent use; each probe owns its session.
type Session interface {
	// Get fetches a single OID.
	Get(oid string) GetResult
	// Close releases the underlying transport.
	Close() error
}

// SessionFactory opens sessions. The poller takes a factory so tests can
// substitute fakes for real UDP transports.
type SessionFactory interface {
	Open(address string) (Session, error)
}

// SessionConfig carries the SNMP connection parameters shared by every
// printer in the fleet.
type SessionConfig struct {
	Version   string
	Community string
	Port      uint16
	Timeout   time.Duration
	Retries   int
}

// DefaultSessionConfig returns the stock v2c parameters used when the
// configuration file does not override them.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Version:   "2c",
		Community: "public",
		Port:      1161,
		Timeout:   5 * time.Second,
		Retries:   3,
	}
}

func (c SessionConfig) snmpVersion() (gosnmp.SnmpVersion, error) {
	switch strings.ToLower(strings.TrimSpace(c.Version)) {
	case "1":
		return gosnmp.Version1, nil
	case "2c", "2", "v2c":
		return gosnmp.Version2c, nil
	default:
		return 0, fmt.Errorf("unsupported snmp version %q", c.Version)
	}
}

// UDPSessionFactory opens gosnmp sessions over UDP.
type UDPSessionFactory struct {
	Config SessionConfig
}

// Open connects to the agent at address using the factory's parameters.
func (f *UDPSessionFactory) Open(address string) (Session, error) {
	version, err := f.Config.snmpVersion()
	if err != nil {
		return nil, err
	}
	client := &gosnmp.GoSNMP{
		Target:    address,
		Port:      f.Config.Port,
		Community: f.Config.Community,
		Version:   version,
		Timeout:   f.Config.Timeout,
		Retries:   f.Config.Retries,
	}
	if err := client.Connect(); err != nil {
		return nil, fmt.Errorf("connect %s: %w", address, err)
	}
	return &udpSession{client: client}, nil
}

type udpSession struct {
	client *gosnmp.GoSNMP
}

func (s *udpSession) Get(oid string) GetResult {
	packet, err := s.client.Get([]string{oid})
	if err != nil {
		if isTimeout(err) {
			return GetResult{Kind: ResultTimeout, Err: err}
		}
		return GetResult{Kind: ResultError, Err: err}
	}
	if len(packet.Variables) == 0 {
		return GetResult{Kind: ResultNoSuchObject}
	}
	return renderPDU(packet.Variables[0])
}

func (s *udpSession) Close() error {
	return s.client.Conn.Close()
}

// isTimeout reports whether a request failed by running out the clock
// rather than by a hard transport fault. gosnmp reports exhausted retries
// as a plain "request timeout" error, not a net.Error.
func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "timeout")
}

// renderPDU turns a response binding into a GetResult. Octet strings come
// back as raw bytes; everything numeric is rendered in decimal.
func renderPDU(pdu gosnmp.SnmpPDU) GetResult {
	switch pdu.Type {
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView, gosnmp.Null:
		return GetResult{Kind: ResultNoSuchObject}
	case gosnmp.OctetString:
		b, ok := pdu.Value.([]byte)
		if !ok {
			return GetResult{Kind: ResultValue, Raw: fmt.Sprintf("%v", pdu.Value)}
		}
		return GetResult{Kind: ResultValue, Raw: string(b)}
	default:
		return GetResult{Kind: ResultValue, Raw: gosnmp.ToBigInt(pdu.Value).String()}
	}
}
