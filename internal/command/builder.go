// internal/command/builder.go
package command

import (
	"time"

	cfg "github.com/tamzrod/drv89xx/internal/config"
	"github.com/tamzrod/drv89xx/internal/modbus"
)

// Build constructs a Poller over its own Modbus connection.
// The client is returned so the status writer can share the connection.
func Build(s cfg.SourceConfig, motors uint8) (*Poller, *modbus.EndpointClient, error) {
	client, err := modbus.NewEndpointClient(modbus.Config{
		Endpoint: s.Endpoint,
		Timeout:  time.Duration(s.TimeoutMs) * time.Millisecond,
	})
	if err != nil {
		return nil, nil, err
	}

	p, err := New(
		Config{
			UnitID:   s.UnitID,
			Address:  s.Address,
			Motors:   motors,
			Interval: time.Duration(s.IntervalMs) * time.Millisecond,
		},
		client,
	)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return p, client, nil
}
