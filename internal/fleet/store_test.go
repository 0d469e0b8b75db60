package fleet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HerbHall/printwatch/internal/store"
	"github.com/HerbHall/printwatch/internal/testutil"
	"github.com/HerbHall/printwatch/pkg/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Migrate(context.Background(), "fleet", migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(db.DB())
}

func TestStoreInsertAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := testutil.NewPrinter(testutil.WithAddress("10.1.1.1"), testutil.WithToner(30))
	if err := s.Insert(ctx, want); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.Get(ctx, want.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.IPAddress != "10.1.1.1" || got.Name != want.Name || got.Status != want.Status {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if got.TonerLevel == nil || *got.TonerLevel != 30 {
		t.Errorf("TonerLevel = %v, want 30", got.TonerLevel)
	}

	byAddr, err := s.GetByAddress(ctx, "10.1.1.1")
	if err != nil {
		t.Fatalf("get by address: %v", err)
	}
	if byAddr.ID != want.ID {
		t.Errorf("GetByAddress ID = %q, want %q", byAddr.ID, want.ID)
	}
}

func TestStoreDuplicateAddress(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := testutil.NewPrinter(testutil.WithAddress("10.1.1.2"))
	if err := s.Insert(ctx, first); err != nil {
		t.Fatalf("insert: %v", err)
	}
	second := testutil.NewPrinter(testutil.WithAddress("10.1.1.2"))
	if err := s.Insert(ctx, second); !errors.Is(err, ErrDuplicateAddress) {
		t.Errorf("err = %v, want ErrDuplicateAddress", err)
	}
}

func TestStoreGetMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
	if err := s.Delete(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete err = %v, want ErrNotFound", err)
	}
}

func TestStoreListFilters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	printers := []models.Printer{
		testutil.NewPrinter(testutil.WithAddress("10.1.1.1"),
			testutil.WithStatus(models.StatusIdle), testutil.WithLocation("floor 1")),
		testutil.NewPrinter(testutil.WithAddress("10.1.1.2"),
			testutil.WithStatus(models.StatusOffline), testutil.WithLocation("floor 2")),
		testutil.NewPrinter(testutil.WithAddress("10.1.1.3"),
			testutil.WithStatus(models.StatusIdle), testutil.WithLocation("floor 2 annex")),
	}
	for _, p := range printers {
		if err := s.Insert(ctx, p); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	all, err := s.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len(all) = %d, want 3", len(all))
	}

	idle, err := s.List(ctx, ListFilter{Status: models.StatusIdle})
	if err != nil {
		t.Fatalf("list idle: %v", err)
	}
	if len(idle) != 2 {
		t.Errorf("len(idle) = %d, want 2", len(idle))
	}

	floor2, err := s.List(ctx, ListFilter{Location: "floor 2"})
	if err != nil {
		t.Fatalf("list floor 2: %v", err)
	}
	if len(floor2) != 2 {
		t.Errorf("len(floor2) = %d, want 2", len(floor2))
	}

	both, err := s.List(ctx, ListFilter{Status: models.StatusIdle, Location: "floor 2"})
	if err != nil {
		t.Fatalf("list combined: %v", err)
	}
	if len(both) != 1 {
		t.Errorf("len(both) = %d, want 1", len(both))
	}
}

func TestStoreListLowSupplies(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	printers := []models.Printer{
		testutil.NewPrinter(testutil.WithAddress("10.1.1.1"), testutil.WithToner(5)),
		testutil.NewPrinter(testutil.WithAddress("10.1.1.2"), testutil.WithToner(80), testutil.WithPaper(10)),
		// No known levels: must never match a supply filter.
		testutil.NewPrinter(testutil.WithAddress("10.1.1.3")),
	}
	for _, p := range printers {
		if err := s.Insert(ctx, p); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	threshold := 20
	lowToner, err := s.List(ctx, ListFilter{TonerAtMost: &threshold})
	if err != nil {
		t.Fatalf("list low toner: %v", err)
	}
	if len(lowToner) != 1 || lowToner[0].IPAddress != "10.1.1.1" {
		t.Errorf("low toner = %v, want only 10.1.1.1", lowToner)
	}

	lowPaper, err := s.List(ctx, ListFilter{PaperAtMost: &threshold})
	if err != nil {
		t.Fatalf("list low paper: %v", err)
	}
	if len(lowPaper) != 1 || lowPaper[0].IPAddress != "10.1.1.2" {
		t.Errorf("low paper = %v, want only 10.1.1.2", lowPaper)
	}
}

func TestStoreUpdate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testutil.NewPrinter()
	if err := s.Insert(ctx, p); err != nil {
		t.Fatalf("insert: %v", err)
	}

	p.Name = "renamed"
	p.Status = models.StatusOffline
	toner := 5
	p.TonerLevel = &toner
	p.UpdatedAt = time.Now().UTC()
	if err := s.Update(ctx, p); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := s.Get(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "renamed" || got.Status != models.StatusOffline {
		t.Errorf("got %+v after update", got)
	}
	if got.TonerLevel == nil || *got.TonerLevel != 5 {
		t.Errorf("TonerLevel = %v, want 5", got.TonerLevel)
	}
}

func TestStoreHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testutil.NewPrinter()
	if err := s.Insert(ctx, p); err != nil {
		t.Fatalf("insert: %v", err)
	}

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		sample := models.StatusSample{
			PrinterID: p.ID,
			Status:    models.StatusIdle,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.InsertSample(ctx, sample); err != nil {
			t.Fatalf("insert sample: %v", err)
		}
	}

	samples, err := s.History(ctx, p.ID, 3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(samples) != 3 {
		t.Fatalf("len(samples) = %d, want 3", len(samples))
	}
	if !samples[0].Timestamp.After(samples[1].Timestamp) {
		t.Error("history must be newest first")
	}

	// Prune everything older than the last two samples.
	pruned, err := s.PruneHistory(ctx, base.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if pruned != 3 {
		t.Errorf("pruned = %d, want 3", pruned)
	}
	remaining, err := s.History(ctx, p.ID, 10)
	if err != nil {
		t.Fatalf("history after prune: %v", err)
	}
	if len(remaining) != 2 {
		t.Errorf("len(remaining) = %d, want 2", len(remaining))
	}
}

func TestStoreDeleteCascadesHistory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := testutil.NewPrinter()
	if err := s.Insert(ctx, p); err != nil {
		t.Fatalf("insert: %v", err)
	}
	sample := models.StatusSample{PrinterID: p.ID, Status: models.StatusIdle, Timestamp: time.Now().UTC()}
	if err := s.InsertSample(ctx, sample); err != nil {
		t.Fatalf("insert sample: %v", err)
	}
	if err := s.Delete(ctx, p.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	samples, err := s.History(ctx, p.ID, 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("len(samples) = %d after delete, want 0", len(samples))
	}
}

func TestStoreStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	printers := []models.Printer{
		testutil.NewPrinter(testutil.WithAddress("10.1.1.1"),
			testutil.WithStatus(models.StatusIdle), testutil.WithToner(10), testutil.WithPages(100)),
		testutil.NewPrinter(testutil.WithAddress("10.1.1.2"),
			testutil.WithStatus(models.StatusOffline), testutil.WithPaper(5)),
		testutil.NewPrinter(testutil.WithAddress("10.1.1.3"),
			testutil.WithStatus(models.StatusError), testutil.WithPages(200)),
	}
	for _, p := range printers {
		if err := s.Insert(ctx, p); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	stats, err := s.Stats(ctx, 20)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Total = %d, want 3", stats.Total)
	}
	if stats.Online != 1 || stats.Offline != 1 || stats.Errored != 1 {
		t.Errorf("online/offline/errored = %d/%d/%d, want 1/1/1",
			stats.Online, stats.Offline, stats.Errored)
	}
	if stats.LowToner != 1 {
		t.Errorf("LowToner = %d, want 1", stats.LowToner)
	}
	if stats.LowPaper != 1 {
		t.Errorf("LowPaper = %d, want 1", stats.LowPaper)
	}
	if stats.TotalPages != 300 {
		t.Errorf("TotalPages = %d, want 300", stats.TotalPages)
	}
	if stats.ByStatus["IDLE"] != 1 {
		t.Errorf("ByStatus[IDLE] = %d, want 1", stats.ByStatus["IDLE"])
	}
}
