// internal/modbus/client.go
package modbus

import (
	"sync"
	"time"

	"github.com/goburrow/modbus"
	"github.com/goburrow/serial"
	"github.com/pkg/errors"
)

// ErrShortResponse is returned when a read returns fewer registers than requested.
var ErrShortResponse = errors.New("modbus: short response")

// EndpointClient is a single connection (TCP or RTU) to one Modbus endpoint.
// It serializes requests because it mutates SlaveId per request.
type EndpointClient struct {
	mu      sync.Mutex
	handler handler
	setUnit func(uint8)
	client  modbus.Client
}

type handler interface {
	modbus.ClientHandler
	Connect() error
	Close() error
}

// Config selects the link: Endpoint for Modbus TCP, Device for Modbus RTU.
type Config struct {
	Endpoint string
	Device   string
	Baud     int
	Timeout  time.Duration
}

func NewEndpointClient(cfg Config) (*EndpointClient, error) {
	c := &EndpointClient{}

	switch {
	case cfg.Endpoint != "":
		h := modbus.NewTCPClientHandler(cfg.Endpoint)
		h.Timeout = cfg.Timeout
		c.handler = h
		c.setUnit = func(id uint8) { h.SlaveId = id }

	case cfg.Device != "":
		h := modbus.NewRTUClientHandler(cfg.Device)
		h.Config = serial.Config{
			Address:  cfg.Device,
			BaudRate: cfg.Baud,
			DataBits: 8,
			StopBits: 1,
			Parity:   "E",
			Timeout:  cfg.Timeout,
		}
		c.handler = h
		c.setUnit = func(id uint8) { h.SlaveId = id }

	default:
		return nil, errors.New("modbus: endpoint or device required")
	}

	if err := c.handler.Connect(); err != nil {
		return nil, errors.Wrap(err, "modbus: connect")
	}
	c.client = modbus.NewClient(c.handler)

	return c, nil
}

func (c *EndpointClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handler.Close()
}

// ReadHoldingRegisters reads qty registers (FC3).
func (c *EndpointClient) ReadHoldingRegisters(unitID uint8, addr, qty uint16) ([]uint16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setUnit(unitID)

	raw, err := c.client.ReadHoldingRegisters(addr, qty)
	if err != nil {
		return nil, err
	}

	regs := unpackRegisters(raw)
	if len(regs) < int(qty) {
		return nil, errors.Wrapf(ErrShortResponse, "got=%d want=%d", len(regs), qty)
	}
	return regs[:qty], nil
}

// WriteRegisters writes a contiguous block (FC16).
func (c *EndpointClient) WriteRegisters(unitID uint8, addr uint16, regs []uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setUnit(unitID)

	qty := uint16(len(regs))
	payload := PackRegisters(regs)

	_, err := c.client.WriteMultipleRegisters(addr, qty, payload)
	return err
}

// WriteRegister writes one register (FC6).
func (c *EndpointClient) WriteRegister(unitID uint8, addr, value uint16) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setUnit(unitID)

	_, err := c.client.WriteSingleRegister(addr, value)
	return err
}

// PackRegisters encodes registers in Modbus (big-endian) order.
func PackRegisters(regs []uint16) []byte {
	out := make([]byte, len(regs)*2)
	for i, r := range regs {
		out[2*i] = byte(r >> 8)
		out[2*i+1] = byte(r)
	}
	return out
}

func unpackRegisters(data []byte) []uint16 {
	n := len(data) / 2
	out := make([]uint16, n)
	for i := 0; i < n; i++ {
		out[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return out
}
