package core

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
)

// Category is the physical dimension of a unit. Units of different categories
// are never interchangeable.
type Category string

const (
	Weight Category = "weight"
	Volume Category = "volume"
	Count  Category = "count"
)

func (c Category) valid() bool {
	switch c {
	case Weight, Volume, Count:
		return true
	}
	return false
}

// Unit is a registered measurement unit. Obtain units from GetUnit; the zero Unit is
// not usable in conversions.
type Unit struct {
	Code     string   `json:"code"`
	Category Category `json:"category"`

	ratioToBase float64
}

// RatioToBase is the unit's size relative to its category's base unit (g, ml, ea).
func (u Unit) RatioToBase() float64 { return u.ratioToBase }

func (u Unit) String() string { return u.Code }

// SameUnit reports unit identity (code and category), not just category.
func SameUnit(a, b Unit) bool {
	return a.Code == b.Code && a.Category == b.Category
}

// UnitDefinition describes a unit to add to a registry.
type UnitDefinition struct {
	Code        string   `yaml:"code" json:"code"`
	Category    Category `yaml:"category" json:"category"`
	RatioToBase float64  `yaml:"ratio_to_base" json:"ratio_to_base"`
}

var builtinUnits = []UnitDefinition{
	{Code: "g", Category: Weight, RatioToBase: 1},
	{Code: "kg", Category: Weight, RatioToBase: 1000},
	{Code: "mg", Category: Weight, RatioToBase: 0.001},
	{Code: "ml", Category: Volume, RatioToBase: 1},
	{Code: "l", Category: Volume, RatioToBase: 1000},
	{Code: "ea", Category: Count, RatioToBase: 1},
	{Code: "pc", Category: Count, RatioToBase: 1},
}

// UnitRegistry maps unit codes to units. It is append-only: existing codes cannot be
// redefined, and once sealed no further registrations are accepted.
type UnitRegistry struct {
	mu     sync.RWMutex
	units  map[string]Unit
	sealed bool
}

// NewUnitRegistry returns an unsealed registry holding the built-in units.
func NewUnitRegistry() *UnitRegistry {
	r := &UnitRegistry{units: make(map[string]Unit, len(builtinUnits))}
	for _, def := range builtinUnits {
		r.units[def.Code] = Unit{Code: def.Code, Category: def.Category, ratioToBase: def.RatioToBase}
	}
	return r
}

// Register adds a unit definition. It fails if the registry is sealed, the code is
// already taken, the category is unknown, or the ratio is not a positive finite number.
func (r *UnitRegistry) Register(def UnitDefinition) error {
	code := strings.TrimSpace(def.Code)
	if code == "" {
		return validationError("unit code cannot be empty")
	}
	if !def.Category.valid() {
		return validationError("unit %q has unknown category %q", code, def.Category)
	}
	if !isFinite(def.RatioToBase) || def.RatioToBase <= 0 {
		return validationError("unit %q ratio to base must be greater than zero", code)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed {
		return validationError("unit registry is sealed; cannot register %q", code)
	}
	if _, exists := r.units[code]; exists {
		return validationError("unit code %q is already registered", code)
	}
	r.units[code] = Unit{Code: code, Category: def.Category, ratioToBase: def.RatioToBase}
	return nil
}

// Seal ends the registration phase. Lookups are unaffected.
func (r *UnitRegistry) Seal() {
	r.mu.Lock()
	r.sealed = true
	r.mu.Unlock()
}

// Lookup returns the unit registered under code.
func (r *UnitRegistry) Lookup(code string) (Unit, error) {
	r.mu.RLock()
	u, ok := r.units[code]
	r.mu.RUnlock()
	if !ok {
		return Unit{}, newError(CodeUnknownUnit, "unknown unit code: %s", code)
	}
	return u, nil
}

// Units returns all registered units ordered by category, then ratio, then code.
func (r *UnitRegistry) Units() []Unit {
	r.mu.RLock()
	out := make([]Unit, 0, len(r.units))
	for _, u := range r.units {
		out = append(out, u)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].ratioToBase != out[j].ratioToBase {
			return out[i].ratioToBase < out[j].ratioToBase
		}
		return out[i].Code < out[j].Code
	})
	return out
}

var defaultUnits = NewUnitRegistry()

// RegisterUnit adds a unit to the process-wide registry. Call it during startup only,
// before SealUnits.
func RegisterUnit(def UnitDefinition) error { return defaultUnits.Register(def) }

// SealUnits closes the process-wide registry to further registration.
func SealUnits() { defaultUnits.Seal() }

// GetUnit looks up a unit in the process-wide registry.
func GetUnit(code string) (Unit, error) { return defaultUnits.Lookup(code) }

// Units lists the process-wide registry.
func Units() []Unit { return defaultUnits.Units() }

// Quantity is a positive amount of a unit. The zero Quantity means "absent".
type Quantity struct {
	value float64
	unit  Unit
}

// NewQuantity validates value > 0 and finite.
func NewQuantity(value float64, unit Unit) (Quantity, error) {
	if !isFinite(value) || value <= 0 {
		return Quantity{}, newError(CodeInvalidQuantity, "quantity value must be greater than zero, got %v", value)
	}
	if unit.Code == "" {
		return Quantity{}, newError(CodeUnknownUnit, "quantity unit is not set")
	}
	return Quantity{value: value, unit: unit}, nil
}

// QuantityOf builds a quantity from a registered unit code.
func QuantityOf(value float64, code string) (Quantity, error) {
	if !isFinite(value) || value <= 0 {
		return Quantity{}, newError(CodeInvalidQuantity, "quantity value must be greater than zero, got %v", value)
	}
	unit, err := GetUnit(code)
	if err != nil {
		return Quantity{}, err
	}
	return Quantity{value: value, unit: unit}, nil
}

func (q Quantity) Value() float64 { return q.value }
func (q Quantity) Unit() Unit { return q.unit }
func (q Quantity) IsZero() bool { return q.unit.Code == "" }

func (q Quantity) String() string {
	return fmt.Sprintf("%g %s", q.value, q.unit.Code)
}

func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value float64 `json:"value"`
		Unit  string  `json:"unit"`
	}{q.value, q.unit.Code})
}

// Conversion states that one `from` unit of purchase quantity yields Factor `to`
// units of stock. The factor is merchant-defined and need not equal the physical ratio.
type Conversion struct {
	from   Unit
	to     Unit
	factor float64
}

// NewConversion validates the factor and that both units share a category.
func NewConversion(from, to Unit, factor float64) (Conversion, error) {
	if !isFinite(factor) || factor <= 0 {
		return Conversion{}, newError(CodeInvalidConversion, "conversion factor must be greater than zero, got %v", factor)
	}
	if err := EnsureSameCategory(from, to); err != nil {
		return Conversion{}, err
	}
	return Conversion{from: from, to: to, factor: factor}, nil
}

// ConversionOf builds a conversion from registered unit codes.
func ConversionOf(fromCode, toCode string, factor float64) (Conversion, error) {
	if !isFinite(factor) || factor <= 0 {
		return Conversion{}, newError(CodeInvalidConversion, "conversion factor must be greater than zero, got %v", factor)
	}
	from, err := GetUnit(fromCode)
	if err != nil {
		return Conversion{}, err
	}
	to, err := GetUnit(toCode)
	if err != nil {
		return Conversion{}, err
	}
	return NewConversion(from, to, factor)
}

func (c Conversion) From() Unit { return c.from }
func (c Conversion) To() Unit { return c.to }
func (c Conversion) Factor() float64 { return c.factor }

func (c Conversion) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		From   string  `json:"from"`
		To     string  `json:"to"`
		Factor float64 `json:"factor"`
	}{c.from.Code, c.to.Code, c.factor})
}

// ApplyConversion converts q with the explicit factor of c. q must be in c's from unit.
func ApplyConversion(q Quantity, c Conversion) (Quantity, error) {
	if !SameUnit(q.unit, c.from) {
		return Quantity{}, newError(CodeConversionMismatch,
			"conversion mismatch: quantity in %s cannot be converted using factor for %s", q.unit.Code, c.from.Code)
	}
	return Quantity{value: q.value * c.factor, unit: c.to}, nil
}

// InvertConversion swaps the direction of c.
func InvertConversion(c Conversion) (Conversion, error) {
	return NewConversion(c.to, c.from, 1/c.factor)
}

// ConvertQuantity converts q to target through the registry's base ratios.
func ConvertQuantity(q Quantity, target Unit) (Quantity, error) {
	if err := EnsureSameCategory(q.unit, target); err != nil {
		return Quantity{}, err
	}
	if q.unit.ratioToBase <= 0 {
		return Quantity{}, newError(CodeUnknownUnit, "unknown unit code: %s", q.unit.Code)
	}
	if target.ratioToBase <= 0 {
		return Quantity{}, newError(CodeUnknownUnit, "unknown unit code: %s", target.Code)
	}
	base := q.value * q.unit.ratioToBase
	return Quantity{value: base / target.ratioToBase, unit: target}, nil
}

// ScaleQuantity multiplies q by a non-negative finite factor. A zero factor is allowed.
func ScaleQuantity(q Quantity, factor float64) (Quantity, error) {
	if !isFinite(factor) || factor < 0 {
		return Quantity{}, validationError("scale factor must be non-negative, got %v", factor)
	}
	return Quantity{value: q.value * factor, unit: q.unit}, nil
}

// EnsureSameCategory fails with CategoryMismatch when a and b differ in category.
func EnsureSameCategory(a, b Unit) error {
	if a.Category != b.Category {
		return newError(CodeCategoryMismatch, "unit category mismatch: %s (%s) vs %s (%s)",
			a.Code, a.Category, b.Code, b.Category)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
