package pixoo

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jwulff/countdown-go/internal/storage"
	"github.com/jwulff/countdown-go/internal/storage/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeProber(hits ...string) Prober {
	set := make(map[string]bool)
	for _, h := range hits {
		set[h] = true
	}
	return func(_ context.Context, ip string) *DiscoveredDevice {
		if set[ip] {
			return &DiscoveredDevice{Name: "Pixoo", IP: ip}
		}
		return nil
	}
}

func TestScanSubnet(t *testing.T) {
	var calls, last atomic.Int32
	devices, err := ScanSubnet(context.Background(), "10.0.0", fakeProber("10.0.0.42", "10.0.0.7"), func(current, total int) {
		calls.Add(1)
		assert.Equal(t, subnetHosts, total)
		last.Store(int32(current))
	})
	require.NoError(t, err)

	require.Len(t, devices, 2)
	assert.Equal(t, "10.0.0.7", devices[0].IP)
	assert.Equal(t, "10.0.0.42", devices[1].IP)
	assert.Equal(t, int32(subnetHosts), calls.Load())
}

func TestScanSubnetCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanSubnet(ctx, "10.0.0", fakeProber(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSaveDevicesAndLastSeen(t *testing.T) {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	_, err = LastSeenDevice(ctx, store)
	assert.True(t, storage.IsNotFound(err))

	require.NoError(t, SaveDevices(ctx, store, []DiscoveredDevice{{Name: "Pixoo", IP: "10.0.0.7"}}))
	older := storage.NewDevice("10.0.0.9", "10.0.0.9", "Pixoo", DeviceType)
	older.LastSeen = time.Now().Add(-time.Hour)
	require.NoError(t, store.SaveDevice(ctx, older))

	latest, err := LastSeenDevice(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", latest.IP)
	assert.Equal(t, DeviceType, latest.Type)
}

func TestForget(t *testing.T) {
	store, err := sqlite.NewMemoryStore()
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, SaveDevices(ctx, store, []DiscoveredDevice{
		{Name: "Kitchen", IP: "10.0.0.7"},
		{Name: "Desk", IP: "10.0.0.9"},
	}))

	removed, err := Forget(ctx, store, "10.0.0.7")
	require.NoError(t, err)
	assert.Equal(t, "Kitchen", removed.Name)

	devices, err := store.GetDevices(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "10.0.0.9", devices[0].IP)

	_, err = Forget(ctx, store, "10.0.0.7")
	assert.True(t, storage.IsNotFound(err))
}

func TestIPLess(t *testing.T) {
	assert.True(t, ipLess("10.0.0.9", "10.0.0.10"))
	assert.False(t, ipLess("10.0.0.10", "10.0.0.9"))
	assert.True(t, ipLess("a", "b"))
}
