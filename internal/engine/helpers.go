package engine

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/game"
	"github.com/Cha-Sir/Camellia-Plugin-sub000/internal/keys"
)

var printer = message.NewPrinter(language.English)

// credits formats a currency amount with digit grouping ("1,250 credits").
func credits(n int) string {
	return printer.Sprintf("%d credits", n)
}

// displayName returns the participant's name, tagging computer-controlled ones.
func displayName(p *game.Participant) string {
	if p == nil {
		return ""
	}
	name := p.DisplayName
	if name == "" {
		name = p.ID
	}
	if p.IsComputerControlled {
		return "[NPC] " + name
	}
	return name
}

func sameName(a, b string) bool { return keys.Name(a) == keys.Name(b) }

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// weaponPrice prefers the catalog price and falls back to fallback.
func (rc *runContext) weaponPrice(name string, fallback int) int {
	if rc.env.Catalog != nil {
		if w, ok := rc.env.Catalog.Weapon(name); ok {
			return w.Price
		}
	}
	return fallback
}

// grantWeapon hands a weapon to p following the duplicate rule: an owned
// weapon becomes currency worth its price, anything else is kept as a find.
// It returns the currency credited (0 when the weapon was kept).
func (rc *runContext) grantWeapon(p *game.Participant, name string, fallbackPrice int) int {
	if p.Owns(name) {
		price := rc.weaponPrice(name, fallbackPrice)
		p.RunCurrency += price
		return price
	}
	p.RunFoundEquipment = append(p.RunFoundEquipment, name)
	return 0
}
