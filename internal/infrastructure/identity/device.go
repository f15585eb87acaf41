// Package identity resolves the stable device identifier attached to
// invoice submissions: a cached id when present, else the first hardware
// MAC address, else a generated id that is then cached.
package identity

import (
	"context"
	"net"
	"os"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Resolver implements billing.IdentityResolver
type Resolver struct {
	cacheFile string
	logger    *zap.Logger
}

// NewResolver creates a Resolver persisting the id at cacheFile
func NewResolver(cacheFile string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{cacheFile: cacheFile, logger: logger}
}

// ResolveDeviceID returns the device id, resolving and caching it on first
// use. Resolution never fails outright: when neither a cached id nor a
// hardware address is available a generated id is used.
func (r *Resolver) ResolveDeviceID(ctx context.Context) (string, error) {
	if id := r.cachedID(); id != "" {
		return id, nil
	}

	id := firstHardwareAddr()
	if id == "" {
		id = uuid.New().String()
		r.logger.Debug("No hardware address found, generated device id",
			zap.String("device_id", id))
	}

	r.persist(id)
	return id, nil
}

func (r *Resolver) cachedID() string {
	data, err := os.ReadFile(r.cacheFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (r *Resolver) persist(id string) {
	if r.cacheFile == "" {
		return
	}
	if err := os.WriteFile(r.cacheFile, []byte(id+"\n"), 0600); err != nil {
		// caching is best effort; the id is still valid for this run
		r.logger.Warn("Failed to cache device id", zap.Error(err))
	}
}

// firstHardwareAddr returns the MAC of the first non-loopback interface
// that has one
func firstHardwareAddr() string {
	interfaces, err := net.Interfaces()
	if err != nil {
		return ""
	}
	for _, iface := range interfaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(iface.HardwareAddr) == 0 {
			continue
		}
		return iface.HardwareAddr.String()
	}
	return ""
}
