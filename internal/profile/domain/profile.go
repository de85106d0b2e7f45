package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidProfile = errors.New("invalid store profile")

// Profile is the store identity shown on the storefront. Phone is the
// merchant's WhatsApp number that receives order summaries.
type Profile struct {
	Name     string `json:"name"`
	Subtitle string `json:"subtitle"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Logo     string `json:"logo,omitempty"`
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: name required", ErrInvalidProfile)
	}
	if !strings.ContainsAny(p.Phone, "0123456789") {
		return fmt.Errorf("%w: phone must contain digits", ErrInvalidProfile)
	}
	return nil
}

func Default() Profile {
	return Profile{
		Name:     "PizzaFuturista",
		Subtitle: "A Pizzaria do Futuro",
		Address:  "Rua Futurista, 123 - São Paulo, SP",
		Phone:    "+5511940704836",
	}
}
