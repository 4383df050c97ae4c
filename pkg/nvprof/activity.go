package nvprof

// Activity is one row of the aggregate GPU activity / API call table.
type Activity struct {
	Type        string  `csv:"Type"`
	TimePercent float64 `csv:"Time(%)"`
	TimeMs      float64 `csv:"Time"`
	Calls       float64 `csv:"Calls"`
	AvgUs       float64 `csv:"Avg"`
	MinUs       float64 `csv:"Min"`
	MaxMs       float64 `csv:"Max"`
	Name        string  `csv:"Name"`
}

// ActivityAttributes lists the flattened activity attributes in output order.
var ActivityAttributes = []string{"time_percent", "time_ms", "num_calls", "avg_us", "min_us", "max_ms"}

func (a Activity) values() []float64 {
	return []float64{a.TimePercent, a.TimeMs, a.Calls, a.AvgUs, a.MinUs, a.MaxMs}
}

// FlattenActivities pivots activity rows into one record keyed by
// "{attribute}_{name}". A repeated name overwrites the earlier values.
func FlattenActivities(activities []Activity) *Record {
	rec := NewRecord()
	for _, a := range activities {
		for i, v := range a.values() {
			rec.Set(fieldName(ActivityAttributes[i], a.Name), v)
		}
	}
	return rec
}

// ParseActivities reads the activity table of a profile and flattens it.
func ParseActivities(src Source, opts Options) (*Record, error) {
	p, err := Open(src)
	if err != nil {
		return nil, err
	}
	activities, err := p.Activities(opts)
	if err != nil {
		return nil, err
	}
	return FlattenActivities(activities), nil
}
