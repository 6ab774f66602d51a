package models

import "fmt"

// MissingBalanceError indicates no bank balance record exists for an entity.
// It is fatal for single-entity projections; consolidated projections skip
// the entity unless every entity is missing one.
type MissingBalanceError struct {
	Entity string
}

func (e *MissingBalanceError) Error() string {
	return fmt.Sprintf("no bank balance found for entity %q: add a bank balance record first", e.Entity)
}

// InvalidEntityError indicates an unrecognized entity code.
type InvalidEntityError struct {
	Entity string
}

func (e *InvalidEntityError) Error() string {
	return fmt.Sprintf("invalid entity %q", e.Entity)
}

// InvalidTimeframeError indicates an unrecognized projection bucketing unit.
type InvalidTimeframeError struct {
	Timeframe string
}

func (e *InvalidTimeframeError) Error() string {
	return fmt.Sprintf("invalid timeframe %q", e.Timeframe)
}

// ScenarioNotFoundError indicates an unknown scenario id.
type ScenarioNotFoundError struct {
	ID int64
}

func (e *ScenarioNotFoundError) Error() string {
	return fmt.Sprintf("scenario %d not found", e.ID)
}
