// internal/writer/builder.go
package writer

import (
	"time"

	cfg "github.com/tamzrod/drv89xx/internal/config"
	"github.com/tamzrod/drv89xx/internal/modbus"
)

// BuildStatusWriter wires a status writer for the configured block.
// If shared is non-nil and serves the same endpoint, its connection is reused.
// The returned closer releases only what this call opened.
// Assumes config has already been validated and normalized.
func BuildStatusWriter(s cfg.StatusConfig, shared *modbus.EndpointClient, sharedEndpoint string) (StatusWriter, func() error, error) {
	plan := StatusPlan{
		Endpoint: s.Endpoint,
		UnitID:   s.UnitID,
		Address:  s.Address,
	}

	if shared != nil && sharedEndpoint == s.Endpoint {
		sw, err := NewStatusWriter(plan, shared)
		return sw, func() error { return nil }, err
	}

	c, err := modbus.NewEndpointClient(modbus.Config{
		Endpoint: s.Endpoint,
		Timeout:  time.Duration(s.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	sw, err := NewStatusWriter(plan, c)
	if err != nil {
		_ = c.Close()
		return nil, nil, err
	}
	return sw, c.Close, nil
}
