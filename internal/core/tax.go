package core

// TaxConfig describes how a price carries consumption tax.
type TaxConfig struct {
	RatePercent float64
	Included    bool
	// Rounding defaults to RoundHalfUp when nil.
	Rounding RoundingPolicy
}

// PriceExcludingTax strips tax from a tax-inclusive price. Prices that are not
// tax-inclusive, or carry a zero rate, are returned unchanged.
func PriceExcludingTax(price Money, cfg TaxConfig) (Money, error) {
	rate := cfg.RatePercent
	if !isFinite(rate) || rate < 0 {
		return Money{}, newError(CodeInvalidTaxRate, "tax rate must be a non-negative number, got %v", rate)
	}
	if !cfg.Included || rate == 0 {
		return price, nil
	}

	round := cfg.Rounding
	if round == nil {
		round = RoundHalfUp
	}
	raw := float64(price.AmountMinor()) / (1 + rate/100)
	return OfMinor(round(raw), price.Currency()), nil
}

// TaxAmount is the tax portion of a tax-inclusive price, or zero otherwise.
func TaxAmount(price Money, cfg TaxConfig) (Money, error) {
	if !cfg.Included {
		return OfMinor(0, price.Currency()), nil
	}
	net, err := PriceExcludingTax(price, cfg)
	if err != nil {
		return Money{}, err
	}
	return Sub(price, net)
}
