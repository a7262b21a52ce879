// Package dummydb is an in-memory store implementing every repository. It backs the tests.
package dummydb

import (
	"context"
	"sync"

	"github.com/trezcool/studytrack/core"
	"github.com/trezcool/studytrack/core/assignment"
	"github.com/trezcool/studytrack/core/subject"
	"github.com/trezcool/studytrack/core/user"
)

// DB holds all tables behind a single lock so that cascades stay consistent.
type DB struct {
	sync.RWMutex
	users       map[string]*user.User
	subjects    map[string]*subject.Subject
	assignments map[string]*assignment.Assignment
	types       map[string]*assignment.Type
}

var _ core.Transactor = (*DB)(nil)

func Open() (*DB, error) {
	db := &DB{
		users:       make(map[string]*user.User),
		subjects:    make(map[string]*subject.Subject),
		assignments: make(map[string]*assignment.Assignment),
		types:       make(map[string]*assignment.Type),
	}
	return db, nil
}

// InTx runs fn directly: the dummy store has no rollback.
func (db *DB) InTx(_ context.Context, fn func(exec core.DBExecutor) error) error {
	return fn(nil)
}

// Flush empties every table.
func (db *DB) Flush() {
	db.Lock()
	defer db.Unlock()
	db.users = make(map[string]*user.User)
	db.subjects = make(map[string]*subject.Subject)
	db.assignments = make(map[string]*assignment.Assignment)
	db.types = make(map[string]*assignment.Type)
}

// deleteSubject must be called with the write lock held.
func (db *DB) deleteSubject(id string) {
	for aid, a := range db.assignments {
		if a.SubjectID == id {
			delete(db.assignments, aid)
		}
	}
	delete(db.subjects, id)
}
