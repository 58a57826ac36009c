package resolver

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/jaswdr/faker"
	"github.com/mihula/WebCommentsAnalysis/pkg/models"
	"github.com/sirupsen/logrus"
)

func newTestResolver() *EntityResolver {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress log output during tests
	return NewEntityResolver(logger)
}

func class(name, entityName string) *models.ClassRecord {
	return &models.ClassRecord{ClassName: name, EntityName: entityName}
}

func entities(classes []*models.ClassRecord) map[string]string {
	result := make(map[string]string)
	for _, c := range classes {
		result[c.ClassName] = c.EntityName
	}
	return result
}

func TestResolveCommonPrefix(t *testing.T) {
	a := class("A", "FOO")
	commonA := class("CommonA", "")

	res := newTestResolver().Resolve([]*models.ClassRecord{a, commonA})

	if commonA.EntityName != "FOO" {
		t.Errorf("Expected CommonA entity FOO, got %q", commonA.EntityName)
	}
	if res.Passes != 1 {
		t.Errorf("Expected 1 pass, got %d", res.Passes)
	}
	outcome := res.Outcome(commonA)
	if outcome.Method != Similar || outcome.Source != a {
		t.Errorf("Expected CommonA resolved by similarity from A, got %+v", outcome)
	}
	if res.Outcome(a).Method != Direct {
		t.Errorf("Expected A to be resolved directly, got %s", res.Outcome(a).Method)
	}
}

func TestFindSimilarRules(t *testing.T) {
	er := newTestResolver()

	tests := []struct {
		className string
		resolved  []string
		expected  string
	}{
		{"OrderList", []string{"OrderList"}, "OrderList"},
		{"OrderEditList", []string{"OrderList"}, "OrderList"},
		{"OrderModule", []string{"OrderList"}, "OrderList"},
		{"OrderModule", []string{"OrderDetail"}, "OrderDetail"},
		{"OrderModule", []string{"OrderDetail", "OrderList"}, "OrderList"},
		{"OrderSwitchModule", []string{"OrderList"}, "OrderList"},
		{"OrderSwitchModule", []string{"OrderDetail"}, "OrderDetail"},
		{"OrderCommonModule", []string{"OrderModule"}, "OrderModule"},
		{"OrderBaseModule", []string{"OrderModule"}, "OrderModule"},
		{"OrderCrossModule", []string{"OrderModule"}, "OrderModule"},
		{"OrderCrossModule", []string{"OrderList"}, "OrderList"},
		{"OrderDetailSwitch", []string{"OrderDetail"}, "OrderDetail"},
		{"CommonOrder", []string{"Order"}, "Order"},
		{"CustomOrder", []string{"Order"}, "Order"},
		{"OrderBaseGrid", []string{"OrderGrid"}, "OrderGrid"},
		{"BaseOrderBase", []string{"Order"}, "Order"},
		{"OrderGrid", []string{"OrderList"}, ""},
		{"CommonOrder", []string{"Orders"}, ""},
	}

	for _, tt := range tests {
		var resolved []*models.ClassRecord
		for _, name := range tt.resolved {
			resolved = append(resolved, class(name, "E_"+name))
		}

		match := er.FindSimilar(tt.className, resolved)
		got := ""
		if match != nil {
			got = match.ClassName
		}
		if got != tt.expected {
			t.Errorf("FindSimilar(%q, %v): expected %q, got %q", tt.className, tt.resolved, tt.expected, got)
		}
	}
}

func TestRulePrecedence(t *testing.T) {
	er := newTestResolver()

	// CommonFooModule reaches FooModule by dropping the Common prefix
	fooModule := class("FooModule", "FOOENT")
	commonFooModule := class("CommonFooModule", "")
	er.Resolve([]*models.ClassRecord{fooModule, commonFooModule})
	if commonFooModule.EntityName != fooModule.EntityName {
		t.Errorf("Expected CommonFooModule entity %q, got %q", fooModule.EntityName, commonFooModule.EntityName)
	}

	// FooCommonModule reaches FooModule through the CommonModule suffix rule
	fooCommonModule := class("FooCommonModule", "")
	er.Resolve([]*models.ClassRecord{class("FooModule", "FOOENT"), fooCommonModule})
	if fooCommonModule.EntityName != "FOOENT" {
		t.Errorf("Expected FooCommonModule entity FOOENT, got %q", fooCommonModule.EntityName)
	}

	// Module->List is probed before the Common prefix rule
	commonList := class("CommonFooList", "LISTENT")
	precedence := class("CommonFooModule", "")
	er.Resolve([]*models.ClassRecord{class("FooModule", "FOOENT"), commonList, precedence})
	if precedence.EntityName != "LISTENT" {
		t.Errorf("Expected CommonFooModule entity LISTENT, got %q", precedence.EntityName)
	}
}

func TestSimilarityBeforeGuess(t *testing.T) {
	report := class("ReportList", "CUSTOM")
	editList := class("ReportEditList", "")

	newTestResolver().Resolve([]*models.ClassRecord{report, editList})

	if editList.EntityName != "CUSTOM" {
		t.Errorf("Expected similarity to win over guessing, got %q", editList.EntityName)
	}
}

func TestGuessEntity(t *testing.T) {
	er := newTestResolver()

	tests := []struct {
		className string
		expected  string
	}{
		{"FooXCOMPBar", "XCOMP"},
		{"FooCompCfgBar", "COMPCFG"},
		{"XCOMPCFG", "COMPCFG"},
		{"TechInfoReportList", "TECHINFO"},
		{"VodReqDetail", "VODREQ"},
		{"txslotgrid", "TXSLOT"},
		{"OrderList", ""},
	}

	for _, tt := range tests {
		if got := er.GuessEntity(tt.className); got != tt.expected {
			t.Errorf("GuessEntity(%q): expected %q, got %q", tt.className, tt.expected, got)
		}
	}
}

func TestResolveChainAcrossPasses(t *testing.T) {
	fooDetail := class("FooDetail", "FOO")
	custom := class("CustomFooCrossModule", "")
	cross := class("FooCrossModule", "")
	module := class("FooModule", "")

	// Reverse dependency order forces one new resolution per pass
	res := newTestResolver().Resolve([]*models.ClassRecord{fooDetail, custom, cross, module})

	for _, c := range []*models.ClassRecord{custom, cross, module} {
		if c.EntityName != "FOO" {
			t.Errorf("Expected %s entity FOO, got %q", c.ClassName, c.EntityName)
		}
	}
	if res.Passes != 3 {
		t.Errorf("Expected 3 passes, got %d", res.Passes)
	}
	if res.Outcome(module).Pass != 1 || res.Outcome(cross).Pass != 2 || res.Outcome(custom).Pass != 3 {
		t.Errorf("Unexpected pass numbers: %d, %d, %d",
			res.Outcome(module).Pass, res.Outcome(cross).Pass, res.Outcome(custom).Pass)
	}
	if origin := res.Origin(custom); origin != fooDetail {
		t.Errorf("Expected origin FooDetail, got %v", origin)
	}
	if res.Outcome(custom).Source != cross {
		t.Errorf("Expected CustomFooCrossModule to copy from FooCrossModule")
	}

	// Resolved order is direct classes first, then resolution order
	expectedOrder := []string{"FooDetail", "FooModule", "FooCrossModule", "CustomFooCrossModule"}
	for i, name := range expectedOrder {
		if res.Resolved[i].ClassName != name {
			t.Errorf("Expected resolved[%d] = %s, got %s", i, name, res.Resolved[i].ClassName)
		}
	}
}

func TestResolveLeavesResidue(t *testing.T) {
	known := class("Order", "COMMORDER")
	orphan := class("Orphan", "")
	commonOrphan := class("CommonOrphan", "")

	res := newTestResolver().Resolve([]*models.ClassRecord{known, orphan, commonOrphan})

	if orphan.EntityName != "" || commonOrphan.EntityName != "" {
		t.Errorf("Expected orphans to stay unresolved, got %q and %q", orphan.EntityName, commonOrphan.EntityName)
	}
	if len(res.Unresolved) != 2 {
		t.Errorf("Expected 2 unresolved classes, got %d", len(res.Unresolved))
	}
	if res.Passes != 1 {
		t.Errorf("Expected a single pass without progress, got %d", res.Passes)
	}
	if res.Origin(orphan) != nil {
		t.Error("Expected no origin for an unresolved class")
	}
	if res.Count(Unresolved) != 2 || res.Count(Direct) != 1 {
		t.Errorf("Unexpected counts: unresolved=%d direct=%d", res.Count(Unresolved), res.Count(Direct))
	}
	if known.EntityName != "COMMORDER" {
		t.Errorf("Expected direct entity to be kept, got %q", known.EntityName)
	}
}

func TestResolveEmptyInput(t *testing.T) {
	res := newTestResolver().Resolve(nil)
	if res.Passes != 0 || len(res.Resolved) != 0 || len(res.Unresolved) != 0 {
		t.Errorf("Expected empty resolution, got %+v", res)
	}
}

func TestResolvePartialClassesByExactName(t *testing.T) {
	first := class("OrderDetail", "COMMORDER")
	second := class("OrderDetail", "")

	res := newTestResolver().Resolve([]*models.ClassRecord{second, first})

	if second.EntityName != "COMMORDER" {
		t.Errorf("Expected partial declaration to share entity, got %q", second.EntityName)
	}
	if res.Outcome(second).Rule != "exact" {
		t.Errorf("Expected exact rule, got %q", res.Outcome(second).Rule)
	}
}

func TestResolveFirstResolvedMatchWins(t *testing.T) {
	first := class("Order", "FIRST")
	second := class("Order", "SECOND")
	custom := class("CustomOrder", "")

	newTestResolver().Resolve([]*models.ClassRecord{first, second, custom})

	if custom.EntityName != "FIRST" {
		t.Errorf("Expected the first resolved match to win, got %q", custom.EntityName)
	}
}

// fixture returns classes whose final entities do not depend on processing order
func fixture(f faker.Faker) []*models.ClassRecord {
	classes := []*models.ClassRecord{
		class("OrderList", "COMMORDER"),
		class("Invoice", "INVOICE"),
		class("OrderEditList", ""),
		class("OrderModule", ""),
		class("CommonOrderModule", ""),
		class("CustomInvoice", ""),
		class("TxSlotGrid", ""),
		class("Orphan", ""),
		class("CommonOrphan", ""),
	}
	for i := 0; i < 20; i++ {
		classes = append(classes, class(fmt.Sprintf("Noise%s%d", f.Lorem().Word(), i), ""))
	}
	return classes
}

func TestResolveOrderIndependence(t *testing.T) {
	er := newTestResolver()

	baseline := fixture(faker.NewWithSeed(rand.NewSource(7)))
	er.Resolve(baseline)
	expected := entities(baseline)

	if expected["CommonOrderModule"] != "COMMORDER" || expected["CustomInvoice"] != "INVOICE" {
		t.Fatalf("Unexpected baseline resolution: %v", expected)
	}

	for seed := int64(1); seed <= 25; seed++ {
		classes := fixture(faker.NewWithSeed(rand.NewSource(7)))
		rand.New(rand.NewSource(seed)).Shuffle(len(classes), func(i, j int) {
			classes[i], classes[j] = classes[j], classes[i]
		})

		res := er.Resolve(classes)

		got := entities(classes)
		for name, entityName := range expected {
			if got[name] != entityName {
				t.Errorf("Seed %d: expected %s -> %q, got %q", seed, name, entityName, got[name])
			}
		}

		unresolved := 0
		for _, c := range classes {
			if !c.HasEntity() {
				unresolved++
			}
		}
		if res.Passes > unresolved+len(res.Resolved)-res.Count(Direct) {
			t.Errorf("Seed %d: %d passes exceed the number of initially unresolved classes", seed, res.Passes)
		}
	}
}
