// Package engine is the entry point of the query side: it wires
// lexing, parsing, planning and execution into a single call and
// notifies observers at each phase. The engine holds no table state;
// it operates on whatever table the caller passes in and is safe to
// share across callers.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sg243/retailql/internal/domain/data"
	"github.com/sg243/retailql/internal/executor"
	"github.com/sg243/retailql/internal/parser"
	"github.com/sg243/retailql/internal/parser/lexer"
	"github.com/sg243/retailql/internal/plan"
)

// Engine is the main entry point for query execution
type Engine struct {
	observers []Observer
}

// New creates a new Engine instance
func New() *Engine {
	return &Engine{observers: make([]Observer, 0)}
}

// Execute processes a SQL string against the table and returns the result.
// Grammar violations come back as *parser.SyntaxError, unknown
// columns/functions as *plan.SemanticError; neither executes anything.
func (e *Engine) Execute(query string, table data.Table) (*executor.Result, error) {
	runID := uuid.New().String()

	p, err := e.prepare(runID, query, table)
	if err != nil {
		return nil, err
	}

	e.notify(Event{Type: EventExecStart, RunID: runID})
	result, err := executor.Execute(p, table)
	if err != nil {
		return nil, fmt.Errorf("execution error: %w", err)
	}
	e.notify(Event{Type: EventExecEnd, RunID: runID, Data: map[string]interface{}{
		"rows_returned": len(result.Rows),
	}})

	return result, nil
}

// Plan builds a query plan without executing it, for inspection.
// It runs the same lex/parse/plan phases as Execute and emits the same
// lifecycle events for them.
func (e *Engine) Plan(query string, table data.Table) (*plan.QueryPlan, error) {
	return e.prepare(uuid.New().String(), query, table)
}

// prepare runs the lex, parse and plan phases, notifying observers
// around each.
func (e *Engine) prepare(runID, query string, table data.Table) (*plan.QueryPlan, error) {
	// 1. Tokenize
	e.notify(Event{Type: EventLexStart, RunID: runID, Data: query})
	tokens, err := lexer.Tokenize(query)
	if err != nil {
		return nil, &parser.SyntaxError{Expected: "a valid token", Got: err.Error()}
	}
	e.notify(Event{Type: EventLexEnd, RunID: runID, Data: len(tokens)})

	// 2. Parse
	e.notify(Event{Type: EventParseStart, RunID: runID})
	stmt, err := parser.New(tokens).ParseSelect()
	if err != nil {
		return nil, err
	}
	e.notify(Event{Type: EventParseEnd, RunID: runID, Data: stmt.String()})

	// 3. Plan
	e.notify(Event{Type: EventPlanStart, RunID: runID})
	p, err := plan.Build(stmt, table)
	if err != nil {
		return nil, err
	}
	e.notify(Event{Type: EventPlanEnd, RunID: runID, Data: p.NodeType()})

	return p, nil
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
