package logging

import "time"

// Field constructors for the keys used across the pipeline.

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Float64(key string, value float64) Field {
	return Field{Key: key, Value: value}
}

func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value.String()}
}

func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// RunID tags entries with the pipeline run identifier.
func RunID(id string) Field {
	return Field{Key: "run_id", Value: id}
}

// Stage tags entries with the pipeline stage name.
func Stage(name string) Field {
	return Field{Key: "stage", Value: name}
}

// Component tags entries with the subsystem emitting them.
func Component(name string) Field {
	return Field{Key: "component", Value: name}
}
