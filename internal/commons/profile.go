package commons

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/shopspring/decimal"
)

// Profile is the static restaurant description: identity, hours and the
// pricing constants. Configuration, not behavior — nothing here is mutated
// at runtime.
type Profile struct {
	Name            string
	Subtitle        string
	Phone           string
	Address         string
	Hours           map[string]string
	TaxRate         decimal.Decimal
	DeliveryFee     decimal.Decimal
	MinimumDelivery decimal.Decimal
}

type rawProfile struct {
	Name            string            `yaml:"name"`
	Subtitle        string            `yaml:"subtitle"`
	Phone           string            `yaml:"phone"`
	Address         string            `yaml:"address"`
	Hours           map[string]string `yaml:"hours"`
	TaxRate         string            `yaml:"taxRate"`
	DeliveryFee     string            `yaml:"deliveryFee"`
	MinimumDelivery string            `yaml:"minimumDelivery"`
}

func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading restaurant profile: %w", err)
	}

	var raw rawProfile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing restaurant profile: %w", err)
	}

	p := &Profile{
		Name:     raw.Name,
		Subtitle: raw.Subtitle,
		Phone:    raw.Phone,
		Address:  raw.Address,
		Hours:    raw.Hours,
	}

	for _, field := range []struct {
		name  string
		value string
		dst   *decimal.Decimal
	}{
		{"taxRate", raw.TaxRate, &p.TaxRate},
		{"deliveryFee", raw.DeliveryFee, &p.DeliveryFee},
		{"minimumDelivery", raw.MinimumDelivery, &p.MinimumDelivery},
	} {
		d, err := decimal.NewFromString(field.value)
		if err != nil {
			return nil, fmt.Errorf("parsing restaurant profile %s: %w", field.name, err)
		}
		*field.dst = d
	}

	return p, nil
}
