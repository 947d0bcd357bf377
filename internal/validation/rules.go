package validation

// CategoryRules returns the rule set for category payloads. Labels are the
// display names used in localized messages.
func CategoryRules() *RuleSet {
	return NewRuleSet(
		Rule{Field: "name", Label: "Categoría", Type: String, Required: true, Tag: "max=255"},
		Rule{Field: "description", Label: "Descripción", Type: String, Nullable: true},
		Rule{Field: "is_active", Label: "Estado", Type: Boolean, Required: true},
	)
}

// ProductRules returns the rule set for product payloads.
func ProductRules() *RuleSet {
	return NewRuleSet(
		Rule{Field: "name", Label: "Producto", Type: String, Required: true, Tag: "max=255"},
		Rule{Field: "description", Label: "Descripción", Type: String, Nullable: true},
		Rule{Field: "price", Label: "Precio", Type: Numeric, Required: true, Tag: "gte=0"},
		Rule{Field: "stock", Label: "Stock", Type: Integer, Required: true, Tag: "gte=0"},
		Rule{Field: "is_active", Label: "Estado", Type: Boolean, Required: true},
	)
}
