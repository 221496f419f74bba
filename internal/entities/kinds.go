package entities

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies one lookup entity type, e.g. "country_option".
type Kind struct {
	Name        string `json:"name"`
	Table       string `json:"table"`
	DisplayName string `json:"displayName"`
}

// RoutePrefix is the API prefix every route of the kind hangs off.
func (k Kind) RoutePrefix() string {
	return "/api/" + k.Name
}

var kindNames = []string{
	"plan_status_option",
	"procurement_type_option",
	"procurement_method_option",
	"country_option",
	"currency_option",
	"gender_option",
	"tender_stage_option",
	"tender_status_option",
	"scheme_option",
	"funding_source_option",
	"budget_category_option",
	"contract_type_option",
	"contract_status_option",
	"bid_status_option",
	"evaluation_method_option",
	"award_criteria_option",
	"lot_type_option",
	"unit_of_measure_option",
	"language_option",
	"document_type_option",
	"submission_method_option",
	"supplier_category_option",
	"business_type_option",
	"legal_form_option",
	"industry_sector_option",
	"region_option",
	"district_option",
	"marital_status_option",
	"title_option",
	"id_document_type_option",
	"payment_method_option",
	"payment_term_option",
	"guarantee_type_option",
	"complaint_status_option",
	"complaint_category_option",
	"notification_type_option",
	"qualification_criteria_option",
	"planning_quarter_option",
	"fiscal_year_option",
	"framework_agreement_type_option",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for _, name := range kindNames {
		m[name] = newKind(name)
	}
	return m
}()

func newKind(name string) Kind {
	return Kind{
		Name:        name,
		Table:       name + "s",
		DisplayName: displayName(name),
	}
}

// displayName turns "plan_status_option" into "PlanStatusOption".
func displayName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// AllKinds returns every registered kind in registration order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for _, name := range kindNames {
		kinds = append(kinds, kindsByName[name])
	}
	return kinds
}

// LookupKind returns the kind registered under name.
func LookupKind(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// FilterKinds returns the kinds named in names, or all kinds when names is empty.
// Unknown names are reported together in one error.
func FilterKinds(names []string) ([]Kind, error) {
	if len(names) == 0 {
		return AllKinds(), nil
	}

	seen := make(map[string]bool, len(names))
	var kinds []Kind
	var unknown []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		k, ok := kindsByName[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		kinds = append(kinds, k)
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown option kinds: %s", strings.Join(unknown, ", "))
	}
	return kinds, nil
}
