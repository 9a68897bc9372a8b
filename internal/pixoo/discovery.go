package pixoo

import (
	"context"
	"fmt"
	"net"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jwulff/countdown-go/internal/storage"
)

// DeviceType is recorded for every discovered device.
const DeviceType = "pixoo64"

// Probing limits for a subnet scan.
const (
	probeConcurrency = 50
	probeTimeout     = 500 * time.Millisecond
	subnetHosts      = 254
)

// DiscoveredDevice represents a found Pixoo device.
type DiscoveredDevice struct {
	Name string
	IP   string
}

// ProgressFunc is called during scanning to report progress.
type ProgressFunc func(current, total int)

// Prober reports whether a Pixoo answers at ip.
type Prober func(ctx context.Context, ip string) *DiscoveredDevice

// ScanForDevices scans the local subnet for Pixoo devices.
func ScanForDevices(ctx context.Context, onProgress ProgressFunc) ([]DiscoveredDevice, error) {
	subnet, err := getLocalSubnet()
	if err != nil {
		return nil, err
	}
	return ScanSubnet(ctx, subnet, probePixoo, onProgress)
}

// ScanSubnet probes subnet.1 through subnet.254 with at most 50 probes in
// flight. Devices come back ordered by address.
func ScanSubnet(ctx context.Context, subnet string, probe Prober, onProgress ProgressFunc) ([]DiscoveredDevice, error) {
	var (
		mu      sync.Mutex
		devices []DiscoveredDevice
		done    atomic.Int32
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(probeConcurrency)

	for i := 1; i <= subnetHosts; i++ {
		if gctx.Err() != nil {
			break
		}
		ip := fmt.Sprintf("%s.%d", subnet, i)
		g.Go(func() error {
			if device := probe(gctx, ip); device != nil {
				mu.Lock()
				devices = append(devices, *device)
				mu.Unlock()
			}
			n := done.Add(1)
			if onProgress != nil {
				onProgress(int(n), subnetHosts)
			}
			return gctx.Err()
		})
	}

	err := g.Wait()
	sort.Slice(devices, func(i, j int) bool {
		return ipLess(devices[i].IP, devices[j].IP)
	})
	if err == nil {
		err = ctx.Err()
	}
	return devices, err
}

func ipLess(a, b string) bool {
	ia, ib := net.ParseIP(a).To4(), net.ParseIP(b).To4()
	if ia == nil || ib == nil {
		return a < b
	}
	for k := range ia {
		if ia[k] != ib[k] {
			return ia[k] < ib[k]
		}
	}
	return false
}

// DeviceStore is the part of storage.Store that keeps devices.
type DeviceStore interface {
	SaveDevice(ctx context.Context, device *storage.Device) error
	GetDevice(ctx context.Context, id string) (*storage.Device, error)
	GetDevices(ctx context.Context) ([]*storage.Device, error)
	DeleteDevice(ctx context.Context, id string) error
}

// SaveDevices records discovered devices, keyed by address.
func SaveDevices(ctx context.Context, store DeviceStore, devices []DiscoveredDevice) error {
	for _, d := range devices {
		record := storage.NewDevice(d.IP, d.IP, d.Name, DeviceType)
		if err := store.SaveDevice(ctx, record); err != nil {
			return fmt.Errorf("failed to save device %s: %w", d.IP, err)
		}
	}
	return nil
}

// LastSeenDevice returns the most recently seen stored device.
func LastSeenDevice(ctx context.Context, store DeviceStore) (*storage.Device, error) {
	devices, err := store.GetDevices(ctx)
	if err != nil {
		return nil, err
	}
	var latest *storage.Device
	for _, d := range devices {
		if latest == nil || d.LastSeen.After(latest.LastSeen) {
			latest = d
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound{Resource: "device", ID: "any"}
	}
	return latest, nil
}

// Forget removes a stored device by ID and returns what was removed.
func Forget(ctx context.Context, store DeviceStore, id string) (*storage.Device, error) {
	device, err := store.GetDevice(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := store.DeleteDevice(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to delete device %s: %w", id, err)
	}
	return device, nil
}

// getLocalSubnet returns the local subnet (e.g., "192.168.1").
func getLocalSubnet() (string, error) {
	interfaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("failed to get network interfaces: %w", err)
	}

	for _, iface := range interfaces {
		// Skip loopback and down interfaces
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}

			ip := ipNet.IP.To4()
			if ip == nil || ip.IsLoopback() {
				continue
			}

			return fmt.Sprintf("%d.%d.%d", ip[0], ip[1], ip[2]), nil
		}
	}

	return "", fmt.Errorf("could not determine local network")
}

// probePixoo checks if an IP hosts a Pixoo device.
func probePixoo(ctx context.Context, ip string) *DiscoveredDevice {
	client := NewClient(ip)
	client.HTTPClient.Timeout = probeTimeout

	probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := PixooCommand{Command: "Channel/GetIndex"}
	if err := client.call(probeCtx, cmd.Command, cmd, nil); err != nil {
		return nil
	}

	return &DiscoveredDevice{
		Name: "Pixoo",
		IP:   ip,
	}
}
