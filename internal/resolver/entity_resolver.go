package resolver

import (
	"strings"

	"github.com/mihula/WebCommentsAnalysis/pkg/models"
	"github.com/sirupsen/logrus"
	"github.com/yourbasic/graph"
)

// Method describes how a class obtained its entity name
type Method int

const (
	Unresolved Method = iota
	Direct
	Similar
	Guessed
)

func (m Method) String() string {
	switch m {
	case Direct:
		return "direct"
	case Similar:
		return "similar"
	case Guessed:
		return "guessed"
	}
	return "unresolved"
}

// Outcome records how and in which pass a class was resolved
type Outcome struct {
	Method Method
	Rule   string
	Source *models.ClassRecord
	Pass   int
}

// EntityResolver fills in missing entity names from similarly named classes
type EntityResolver struct {
	Rules       []SimilarityRule
	EntityNames []string
	Logger      *logrus.Logger
}

// NewEntityResolver creates a resolver with the default rules and entity names
func NewEntityResolver(logger *logrus.Logger) *EntityResolver {
	return &EntityResolver{
		Rules:       DefaultRules,
		EntityNames: DefaultEntityNames,
		Logger:      logger,
	}
}

// resolvedSet keeps resolved classes in the order they were resolved.
// byName holds the first class resolved under each name, which is what a linear scan would find.
type resolvedSet struct {
	classes []*models.ClassRecord
	byName  map[string]*models.ClassRecord
}

func newResolvedSet() *resolvedSet {
	return &resolvedSet{byName: make(map[string]*models.ClassRecord)}
}

func (rs *resolvedSet) add(class *models.ClassRecord) {
	rs.classes = append(rs.classes, class)
	if _, exists := rs.byName[class.ClassName]; !exists {
		rs.byName[class.ClassName] = class
	}
}

func (rs *resolvedSet) lookup(className string) *models.ClassRecord {
	return rs.byName[className]
}

// Resolve assigns entity names in place to as many unresolved classes as the rules can reach.
// Classes are swept repeatedly; a sweep that resolves nothing ends the loop.
func (er *EntityResolver) Resolve(classes []*models.ClassRecord) *Resolution {
	res := newResolution(classes)
	resolved := newResolvedSet()

	// Split into resolved and unresolved, keeping input order
	var pending []*models.ClassRecord
	for i, class := range classes {
		if class.HasEntity() {
			resolved.add(class)
			res.Outcomes[i] = Outcome{Method: Direct}
		} else {
			pending = append(pending, class)
		}
	}
	er.Logger.Infof("Entity resolution: %d classes with entity, %d without", len(resolved.classes), len(pending))

	previous := len(pending)
	for len(pending) > 0 {
		res.Passes++
		var stalled []*models.ClassRecord

		for _, class := range pending {
			// Try a similarly named class first
			if source, rule := er.findSimilar(class.ClassName, resolved); source != nil {
				class.EntityName = source.EntityName
				resolved.add(class)
				res.record(class, Outcome{Method: Similar, Rule: rule.String(), Source: source, Pass: res.Passes})
				er.Logger.Debugf("Pass %d: %s -> %s via %s (%s)", res.Passes, class.ClassName, class.EntityName, source.ClassName, rule)
				continue
			}

			// Then guess from the class name itself
			if entityName := er.GuessEntity(class.ClassName); entityName != "" {
				class.EntityName = entityName
				resolved.add(class)
				res.record(class, Outcome{Method: Guessed, Pass: res.Passes})
				er.Logger.Debugf("Pass %d: %s -> %s guessed from name", res.Passes, class.ClassName, entityName)
				continue
			}

			stalled = append(stalled, class)
		}

		er.Logger.Debugf("Pass %d finished: %d classes still without entity", res.Passes, len(stalled))
		pending = stalled
		if len(stalled) == previous {
			break
		}
		previous = len(stalled)
	}

	res.Resolved = resolved.classes
	res.Unresolved = pending
	er.Logger.Infof("Entity resolution finished after %d passes: %d resolved, %d unresolved",
		res.Passes, len(res.Resolved), len(res.Unresolved))
	return res
}

// findSimilar probes each rule in order and returns the first resolved class found
func (er *EntityResolver) findSimilar(className string, resolved *resolvedSet) (*models.ClassRecord, *SimilarityRule) {
	for i := range er.Rules {
		rule := &er.Rules[i]
		candidate, ok := rule.Candidate(className)
		if !ok {
			continue
		}
		if match := resolved.lookup(candidate); match != nil {
			return match, rule
		}
	}
	return nil, nil
}

// FindSimilar returns the first class in resolved that the rules consider similar to className
func (er *EntityResolver) FindSimilar(className string, resolved []*models.ClassRecord) *models.ClassRecord {
	set := newResolvedSet()
	for _, class := range resolved {
		set.add(class)
	}
	match, _ := er.findSimilar(className, set)
	return match
}

// GuessEntity returns the first entity name contained in the upper-cased class name, or ""
func (er *EntityResolver) GuessEntity(className string) string {
	upper := strings.ToUpper(className)
	for _, entityName := range er.EntityNames {
		if strings.Contains(upper, entityName) {
			return entityName
		}
	}
	return ""
}

// Resolution is the result of one resolver run
type Resolution struct {
	Classes    []*models.ClassRecord
	Resolved   []*models.ClassRecord
	Unresolved []*models.ClassRecord
	Outcomes   []Outcome
	Passes     int

	// Provenance has an edge from every class resolved by similarity to the class it copied from
	Provenance *graph.Mutable

	index map[*models.ClassRecord]int
}

func newResolution(classes []*models.ClassRecord) *Resolution {
	res := &Resolution{
		Classes:    classes,
		Outcomes:   make([]Outcome, len(classes)),
		Provenance: graph.New(len(classes)),
		index:      make(map[*models.ClassRecord]int, len(classes)),
	}
	for i, class := range classes {
		if _, exists := res.index[class]; !exists {
			res.index[class] = i
		}
	}
	return res
}

func (r *Resolution) record(class *models.ClassRecord, outcome Outcome) {
	i := r.index[class]
	r.Outcomes[i] = outcome
	if outcome.Source != nil {
		if j, ok := r.index[outcome.Source]; ok {
			r.Provenance.Add(i, j)
		}
	}
}

// Outcome returns how class was resolved
func (r *Resolution) Outcome(class *models.ClassRecord) Outcome {
	i, ok := r.index[class]
	if !ok {
		return Outcome{}
	}
	return r.Outcomes[i]
}

// Origin follows the provenance chain of class back to the class whose entity was
// found directly or guessed. It returns nil for unresolved classes.
func (r *Resolution) Origin(class *models.ClassRecord) *models.ClassRecord {
	i, ok := r.index[class]
	if !ok || r.Outcomes[i].Method == Unresolved {
		return nil
	}

	origin := i
	graph.BFS(r.Provenance, i, func(_, w int, _ int64) {
		origin = w
	})
	return r.Classes[origin]
}

// Count returns the number of classes resolved with the given method
func (r *Resolution) Count(method Method) int {
	count := 0
	for _, outcome := range r.Outcomes {
		if outcome.Method == method {
			count++
		}
	}
	return count
}
