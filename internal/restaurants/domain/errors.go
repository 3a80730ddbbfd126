package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotBound is reported when the restaurants collection handle was never bound.
	ErrNotBound = errors.New("restaurants collection handle is not bound")
	// ErrInvalidID is reported when a restaurant id is not a valid ObjectID hex string.
	ErrInvalidID = errors.New("malformed restaurant id")
	// ErrQuery matches every QueryError via errors.Is.
	ErrQuery = errors.New("restaurant query failed")
)

// Stage identifies the datastore call that failed.
type Stage string

const (
	StageFind      Stage = "find"
	StageDecode    Stage = "decode"
	StageCount     Stage = "count"
	StageAggregate Stage = "aggregate"
	StageDistinct  Stage = "distinct"
)

// QueryError classifies an execution failure by operation and stage.
type QueryError struct {
	Op    string
	Stage Stage
	Err   error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Stage, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is makes every QueryError match ErrQuery.
func (e *QueryError) Is(target error) bool {
	return target == ErrQuery
}
