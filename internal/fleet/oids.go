package fleet

// Standard SNMP OIDs queried per printer. The dotted values are part of the
// wire contract and must not change.

// SNMPv2-MIB system group (1.3.6.1.2.1.1).
const (
	OIDSysName     = "1.3.6.1.2.1.1.5.0"
	OIDSysLocation = "1.3.6.1.2.1.1.6.0"
)

// HOST-RESOURCES-MIB and Printer-MIB objects, instance 1.
const (
	OIDDeviceModel  = "1.3.6.1.2.1.25.3.2.1.3.1"    // hrDeviceDescr
	OIDDeviceStatus = "1.3.6.1.2.1.25.3.5.1.1.1"    // hrPrinterStatus
	OIDPagesPrinted = "1.3.6.1.2.1.43.10.2.1.4.1.1" // prtMarkerLifeCount
	OIDTonerLevel   = "1.3.6.1.2.1.43.11.1.1.9.1.1" // prtMarkerSuppliesLevel
	OIDPaperLevel   = "1.3.6.1.2.1.43.8.2.1.10.1.1" // prtInputCurrentLevel
	OIDPrinterError = "1.3.6.1.2.1.43.18.1.1.8.1.1" // prtAlertDescription
)
