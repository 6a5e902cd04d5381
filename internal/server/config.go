package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings `hcl:"server,block"`
	Room   RoomSettings   `hcl:"room,block"`
	Bank   BankSettings   `hcl:"bank,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// RoomSettings is the table template every room is created from.
type RoomSettings struct {
	Capacity      int `hcl:"capacity,optional"`
	SmallBlind    int `hcl:"small_blind,optional"`
	BigBlind      int `hcl:"big_blind,optional"`
	StartingStack int `hcl:"starting_stack,optional"`
	Rate          int `hcl:"rate,optional"`
	BuyFeePct     int `hcl:"buy_fee_pct,optional"`
	SweepMinutes  int `hcl:"sweep_minutes,optional"`
}

// BankSettings configures the coin ledger.
type BankSettings struct {
	Grant int `hcl:"grant,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Room: RoomSettings{
			Capacity:      6,
			SmallBlind:    5,
			BigBlind:      10,
			StartingStack: 500,
			Rate:          10,
			BuyFeePct:     10,
			SweepMinutes:  30,
		},
		Bank: BankSettings{
			Grant: 20000,
		},
	}
}

// LoadConfig loads the configuration from an HCL file, falling back to
// defaults when the file does not exist.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}
	if config.Room.Capacity == 0 {
		config.Room.Capacity = defaults.Room.Capacity
	}
	if config.Room.SmallBlind == 0 {
		config.Room.SmallBlind = defaults.Room.SmallBlind
	}
	if config.Room.BigBlind == 0 {
		config.Room.BigBlind = defaults.Room.BigBlind
	}
	if config.Room.StartingStack == 0 {
		config.Room.StartingStack = defaults.Room.StartingStack
	}
	if config.Room.Rate == 0 {
		config.Room.Rate = defaults.Room.Rate
	}
	if config.Room.BuyFeePct == 0 {
		config.Room.BuyFeePct = defaults.Room.BuyFeePct
	}
	if config.Room.SweepMinutes == 0 {
		config.Room.SweepMinutes = defaults.Room.SweepMinutes
	}
	if config.Bank.Grant == 0 {
		config.Bank.Grant = defaults.Bank.Grant
	}

	return &config, nil
}

// Validate checks the configuration for nonsense values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Room.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive")
	}
	if c.Room.BigBlind <= c.Room.SmallBlind {
		return fmt.Errorf("big blind must be greater than small blind")
	}
	if c.Room.Capacity < 2 || c.Room.Capacity > 10 {
		return fmt.Errorf("room capacity must be between 2 and 10")
	}
	if c.Room.StartingStack < c.Room.BigBlind*10 {
		return fmt.Errorf("starting stack must cover at least 10 big blinds")
	}
	if c.Room.Rate <= 0 {
		return fmt.Errorf("exchange rate must be positive")
	}
	if c.Room.BuyFeePct < 0 || c.Room.BuyFeePct > 100 {
		return fmt.Errorf("buy fee must be between 0 and 100 percent")
	}
	if c.Bank.Grant < c.Room.StartingStack*c.Room.Rate {
		return fmt.Errorf("bank grant must cover at least one buy-in")
	}
	return nil
}

// ListenAddress returns the host:port the server binds to.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
