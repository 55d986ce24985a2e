package progress

// ModuleOrder is the display order of the learning modules.
var ModuleOrder = []string{"languages", "math", "reading", "writing"}

// ExerciseTypes lists the known exercise types per module. New exercise
// types may still appear in stored records (older or newer clients); the
// aggregator keeps them as long as the module itself is known.
var ExerciseTypes = map[string][]string{
	"languages": {"catalan", "spanish", "english", "french"},
	"math":      {"counting", "addition", "subtraction"},
	"reading":   {"beginner", "intermediate", "advanced"},
	"writing":   {"beginner", "intermediate", "advanced"},
}

// KnownModule reports whether name is one of the learning modules.
func KnownModule(name string) bool {
	_, ok := ExerciseTypes[name]
	return ok
}

// Aggregate is the in-memory progress view: module -> exercise type -> value.
type Aggregate map[string]map[string]int

// DefaultSkeleton returns a zero-initialized aggregate covering every known
// module and exercise type, so consumers never read a missing key.
func DefaultSkeleton() Aggregate {
	agg := make(Aggregate, len(ExerciseTypes))
	for module, types := range ExerciseTypes {
		counters := make(map[string]int, len(types))
		for _, t := range types {
			counters[t] = 0
		}
		agg[module] = counters
	}
	return agg
}

// ApplyRecords folds records into the aggregate and returns it. Records for
// unknown modules are dropped; unknown exercise types within a known module
// are added. The result does not depend on record order, since the store
// holds at most one record per (owner, module, exercise type) key.
func ApplyRecords(agg Aggregate, records []Record) Aggregate {
	for _, rec := range records {
		counters, ok := agg[rec.Module]
		if !ok {
			continue
		}
		counters[rec.ExerciseType] = rec.Value
	}
	return agg
}
