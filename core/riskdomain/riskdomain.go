// Package riskdomain defines the fixed taxonomy of organizational risk
// domains and the finer-grained categories nested under them. The decision
// engine itself accepts free-form domain strings; this package is for callers
// that want to stay inside the known taxonomy.
package riskdomain

type Domain string

const (
	DomainDesignMaturity       Domain = "design_maturity"
	DomainRegulatoryCompliance Domain = "regulatory_compliance"
	DomainMeasurementIntegrity Domain = "measurement_integrity"
	DomainManufacturing        Domain = "manufacturing"
	DomainSupplyChain          Domain = "supply_chain"
	DomainDataEvidence         Domain = "data_evidence"
	DomainDecisionGovernance   Domain = "decision_governance"
)

type Category string

const (
	CategoryUnvalidatedAssumptions   Category = "unvalidated_assumptions"
	CategoryRationaleGaps            Category = "rationale_gaps"
	CategoryTraceabilityGaps         Category = "traceability_gaps"
	CategoryDocumentationGaps        Category = "documentation_gaps"
	CategoryEnvironmentalSensitivity Category = "environmental_sensitivity"
	CategoryDriftStability           Category = "drift_stability"
	CategoryBatchVariability         Category = "batch_variability"
	CategoryQCGaps                   Category = "qc_gaps"
	CategorySingleSourceSupplier     Category = "single_source_supplier"
	CategorySupplierChangeRisk       Category = "supplier_change_risk"
	CategoryDataDefinitionGaps       Category = "data_definition_gaps"
	CategoryAuditTrailGaps           Category = "audit_trail_gaps"
	CategoryThresholdGaps            Category = "threshold_gaps"
	CategoryEscalationGaps           Category = "escalation_gaps"
)

var domainCategories = map[Domain][]Category{
	DomainDesignMaturity: {
		CategoryUnvalidatedAssumptions,
		CategoryRationaleGaps,
		CategoryTraceabilityGaps,
	},
	DomainRegulatoryCompliance: {
		CategoryDocumentationGaps,
		CategoryTraceabilityGaps,
	},
	DomainMeasurementIntegrity: {
		CategoryEnvironmentalSensitivity,
		CategoryDriftStability,
	},
	DomainManufacturing: {
		CategoryBatchVariability,
		CategoryQCGaps,
	},
	DomainSupplyChain: {
		CategorySingleSourceSupplier,
		CategorySupplierChangeRisk,
	},
	DomainDataEvidence: {
		CategoryDataDefinitionGaps,
		CategoryAuditTrailGaps,
	},
	DomainDecisionGovernance: {
		CategoryThresholdGaps,
		CategoryEscalationGaps,
		CategoryAuditTrailGaps,
	},
}

// Domains lists every known domain in stable order.
func Domains() []Domain {
	return []Domain{
		DomainDesignMaturity,
		DomainRegulatoryCompliance,
		DomainMeasurementIntegrity,
		DomainManufacturing,
		DomainSupplyChain,
		DomainDataEvidence,
		DomainDecisionGovernance,
	}
}

// Categories returns the categories scoped under a domain, nil for unknown
// domains.
func Categories(domain Domain) []Category {
	categories, ok := domainCategories[domain]
	if !ok {
		return nil
	}
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// Known reports whether domain is part of the fixed taxonomy.
func Known(domain string) bool {
	_, ok := domainCategories[Domain(domain)]
	return ok
}
