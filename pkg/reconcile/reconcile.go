// Package reconcile synchronizes a persisted owned collection against a
// submitted target collection, keyed by record id.
//
// A desired item either names an existing record (Existing) or asks for a
// new one (New). Diff turns the current and desired sets into a Plan:
//
//   - current records whose id is not in the desired set are deleted
//   - desired items whose id matches a current record update it, or keep it
//     untouched when the fields are equal
//   - desired items without an id, or with an id unknown to the current set,
//     are inserted
//
// Apply executes a Plan against a Store. Deletions always run before inserts
// and updates, and the settled ids are returned in desired order so callers
// can recurse into each record's own children.
package reconcile

import (
	"context"
	"fmt"

	"agro/pkg/apperr"
)

// Item is a desired collection member: New(fields) or Existing(id, fields).
type Item[T any] struct {
	id     uint
	exists bool
	Fields T
}

func New[T any](fields T) Item[T] { return Item[T]{Fields: fields} }

func Existing[T any](id uint, fields T) Item[T] {
	return Item[T]{id: id, exists: true, Fields: fields}
}

// FromID maps a payload id onto the variant: zero means New.
func FromID[T any](id uint, fields T) Item[T] {
	if id == 0 {
		return New(fields)
	}
	return Existing(id, fields)
}

// ID returns the referenced id and whether the item names one at all.
func (it Item[T]) ID() (uint, bool) { return it.id, it.exists }

// Record is a persisted collection member.
type Record[T any] struct {
	ID     uint
	Fields T
}

type Op int

const (
	OpInsert Op = iota
	OpUpdate
	OpKeep
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpKeep:
		return "keep"
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Step is the action for one desired item. ID is zero for inserts.
type Step[T any] struct {
	Op     Op
	ID     uint
	Fields T
}

type Plan[T any] struct {
	Deletes []uint
	Steps   []Step[T]
}

// Counts tallies the writes the plan will perform.
func (p Plan[T]) Counts() (inserts, updates, deletes int) {
	for _, s := range p.Steps {
		switch s.Op {
		case OpInsert:
			inserts++
		case OpUpdate:
			updates++
		}
	}
	return inserts, updates, len(p.Deletes)
}

// Noop reports whether applying the plan writes nothing.
func (p Plan[T]) Noop() bool {
	i, u, d := p.Counts()
	return i == 0 && u == 0 && d == 0
}

// Diff computes the plan that turns current into desired. A desired id that
// appears twice is rejected; it would otherwise update one row from two
// different payload items.
func Diff[T comparable](current []Record[T], desired []Item[T]) (Plan[T], error) {
	byID := make(map[uint]T, len(current))
	for _, r := range current {
		byID[r.ID] = r.Fields
	}

	var plan Plan[T]
	claimed := make(map[uint]bool, len(desired))
	for _, it := range desired {
		id, ok := it.ID()
		if !ok {
			plan.Steps = append(plan.Steps, Step[T]{Op: OpInsert, Fields: it.Fields})
			continue
		}
		cur, known := byID[id]
		if !known {
			plan.Steps = append(plan.Steps, Step[T]{Op: OpInsert, Fields: it.Fields})
			continue
		}
		if claimed[id] {
			return Plan[T]{}, apperr.New(apperr.KindInvalidInput, "id", "id %d appears more than once", id)
		}
		claimed[id] = true
		op := OpUpdate
		if cur == it.Fields {
			op = OpKeep
		}
		plan.Steps = append(plan.Steps, Step[T]{Op: op, ID: id, Fields: it.Fields})
	}

	for _, r := range current {
		if !claimed[r.ID] {
			plan.Deletes = append(plan.Deletes, r.ID)
		}
	}
	return plan, nil
}

// Store is the write side of one owned collection, already scoped to its
// owner and to the caller's transaction.
type Store[T any] interface {
	Insert(ctx context.Context, fields T) (uint, error)
	Update(ctx context.Context, id uint, fields T) error
	Delete(ctx context.Context, id uint) error
}

// Funcs adapts plain functions to Store.
type Funcs[T any] struct {
	InsertFn func(ctx context.Context, fields T) (uint, error)
	UpdateFn func(ctx context.Context, id uint, fields T) error
	DeleteFn func(ctx context.Context, id uint) error
}

func (f Funcs[T]) Insert(ctx context.Context, fields T) (uint, error) { return f.InsertFn(ctx, fields) }

func (f Funcs[T]) Update(ctx context.Context, id uint, fields T) error {
	return f.UpdateFn(ctx, id, fields)
}

func (f Funcs[T]) Delete(ctx context.Context, id uint) error { return f.DeleteFn(ctx, id) }

// Apply executes plan and returns the settled id of every step, in order.
// It stops at the first store error; atomicity is the caller's transaction.
func Apply[T any](ctx context.Context, s Store[T], plan Plan[T]) ([]uint, error) {
	for _, id := range plan.Deletes {
		if err := s.Delete(ctx, id); err != nil {
			return nil, fmt.Errorf("delete %d: %w", id, err)
		}
	}

	ids := make([]uint, len(plan.Steps))
	for i, step := range plan.Steps {
		switch step.Op {
		case OpInsert:
			id, err := s.Insert(ctx, step.Fields)
			if err != nil {
				return nil, fmt.Errorf("insert: %w", err)
			}
			ids[i] = id
		case OpUpdate:
			if err := s.Update(ctx, step.ID, step.Fields); err != nil {
				return nil, fmt.Errorf("update %d: %w", step.ID, err)
			}
			ids[i] = step.ID
		case OpKeep:
			ids[i] = step.ID
		}
	}
	return ids, nil
}

// Sync is Diff followed by Apply.
func Sync[T comparable](ctx context.Context, s Store[T], current []Record[T], desired []Item[T]) (Plan[T], []uint, error) {
	plan, err := Diff(current, desired)
	if err != nil {
		return plan, nil, err
	}
	ids, err := Apply(ctx, s, plan)
	return plan, ids, err
}
