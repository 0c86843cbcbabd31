package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	storage "github.com/enerlytics/enerlytics/internal/adapter/storage/postgres"
	"github.com/enerlytics/enerlytics/internal/domain"
)

func TestPointStore_SumByDevice(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	store := storage.NewPointStore(env.Gorm, env.Logger)

	deviceA := uuid.New()
	deviceB := uuid.New()
	now := time.Now().UTC().Truncate(time.Millisecond)
	start := now.Add(-time.Hour)

	points := []domain.Point{
		{DeviceID: deviceA, EnergyConsumed: 1.5, Time: start},                      // at lower bound, in
		{DeviceID: deviceA, EnergyConsumed: 2.5, Time: now.Add(-30 * time.Minute)}, // in
		{DeviceID: deviceB, EnergyConsumed: 4.0, Time: now.Add(-10 * time.Minute)}, // in
		{DeviceID: deviceA, EnergyConsumed: 99.0, Time: now},                       // at upper bound, out
		{DeviceID: deviceB, EnergyConsumed: 99.0, Time: start.Add(-time.Minute)},   // before window, out
	}
	for _, p := range points {
		if err := store.WritePoint(ctx, p); err != nil {
			t.Fatalf("Failed to write point: %v", err)
		}
	}

	usages, err := store.SumByDevice(ctx, start, now)
	if err != nil {
		t.Fatalf("SumByDevice failed: %v", err)
	}

	sums := make(map[uuid.UUID]float64, len(usages))
	for _, u := range usages {
		sums[u.DeviceID] = u.EnergyConsumed
	}
	if got := sums[deviceA]; got != 4.0 {
		t.Errorf("expected device A sum 4.0, got %v", got)
	}
	if got := sums[deviceB]; got != 4.0 {
		t.Errorf("expected device B sum 4.0, got %v", got)
	}
}

func TestPointStore_EmptyWindow(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	store := storage.NewPointStore(env.Gorm, env.Logger)

	// A window far in the past that no test data touches.
	end := time.Now().UTC().AddDate(-10, 0, 0)
	usages, err := store.SumByDevice(ctx, end.Add(-time.Hour), end)
	if err != nil {
		t.Fatalf("SumByDevice failed: %v", err)
	}
	if len(usages) != 0 {
		t.Errorf("expected empty result, got %d rows", len(usages))
	}
}

func TestDeviceRepository_CRUD(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	repo := storage.NewDeviceRepository(env.Gorm, env.Logger)
	ownerID := uuid.New()

	device := &domain.Device{
		ID:       uuid.New(),
		Name:     "Main meter",
		Type:     domain.DeviceTypeMeter,
		Location: "basement",
		OwnerID:  ownerID,
	}
	if err := repo.Save(ctx, device); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := repo.FindByID(ctx, device.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil || found.Name != "Main meter" {
		t.Fatalf("expected saved device, got %+v", found)
	}

	// Batch lookup returns only known ids.
	batch, err := repo.FindByIDs(ctx, []uuid.UUID{device.ID, uuid.New()})
	if err != nil {
		t.Fatalf("FindByIDs failed: %v", err)
	}
	if len(batch) != 1 {
		t.Errorf("expected 1 device in batch, got %d", len(batch))
	}

	byOwner, total, err := repo.FindAllByOwnerID(ctx, ownerID, 0, 10)
	if err != nil {
		t.Fatalf("FindAllByOwnerID failed: %v", err)
	}
	if total != 1 || len(byOwner) != 1 {
		t.Errorf("expected 1 device for owner, got %d (total %d)", len(byOwner), total)
	}

	if err := repo.Delete(ctx, device.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	gone, err := repo.FindByID(ctx, device.ID)
	if err != nil {
		t.Fatalf("FindByID after delete failed: %v", err)
	}
	if gone != nil {
		t.Error("expected device to be deleted")
	}
}

func TestUserRepository_CRUD(t *testing.T) {
	env := SetupTestEnvironment(t)
	ctx := context.Background()

	repo := storage.NewUserRepository(env.Gorm, env.Logger)

	user := &domain.User{
		ID:              uuid.New(),
		FirstName:       "Ana",
		LastName:        "Souza",
		ContactAddress:  uuid.NewString() + "@example.com",
		AlertingEnabled: true,
		Threshold:       25.0,
	}
	if err := repo.Save(ctx, user); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	found, err := repo.FindByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found == nil || found.Threshold != 25.0 {
		t.Fatalf("expected saved user, got %+v", found)
	}

	if err := repo.Delete(ctx, user.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
}

func TestMigrations_CreateWindowIndex(t *testing.T) {
	env := SetupTestEnvironment(t)

	var count int
	err := env.SQL.QueryRow(
		`SELECT COUNT(*) FROM pg_indexes
		 WHERE tablename = 'energy_usage_points'
		   AND indexname = 'idx_energy_usage_points_ts_device'`,
	).Scan(&count)
	if err != nil {
		t.Fatalf("index query failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected the window index to exist, got %d", count)
	}
}
