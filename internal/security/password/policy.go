package password

import (
	"fmt"
	"strings"
	"unicode"
)

// Policy es la política mínima que kcsctl exige antes de hashear una contraseña para
// sembrarla en el directorio. El gateway no la aplica en el login.
type Policy struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireDigit  bool
	RequireSymbol bool
}

func (p Policy) Validate(s string) (ok bool, reasons []string) {
	if len([]rune(s)) < p.MinLength {
		reasons = append(reasons, "too_short")
	}
	var hasU, hasL, hasD, hasS bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasU = true
		case unicode.IsLower(r):
			hasL = true
		case unicode.IsDigit(r):
			hasD = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasS = true
		}
	}
	if p.RequireUpper && !hasU {
		reasons = append(reasons, "missing_upper")
	}
	if p.RequireLower && !hasL {
		reasons = append(reasons, "missing_lower")
	}
	if p.RequireDigit && !hasD {
		reasons = append(reasons, "missing_digit")
	}
	if p.RequireSymbol && !hasS {
		reasons = append(reasons, "missing_symbol")
	}
	return len(reasons) == 0, reasons
}

// DefaultPolicy: 8 caracteres con mayúscula, minúscula y dígito.
var DefaultPolicy = Policy{MinLength: 8, RequireUpper: true, RequireLower: true, RequireDigit: true}

// Check es Validate en forma de error, para la CLI.
func (p Policy) Check(s string) error {
	if ok, reasons := p.Validate(s); !ok {
		return fmt.Errorf("password: policy violation: %s", strings.Join(reasons, ", "))
	}
	return nil
}
