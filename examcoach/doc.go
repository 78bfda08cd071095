// Package examcoach builds practice exams from a YAML question bank and
// grades submitted answers against them.
//
// Generated exams are kept in a bounded in-memory store so a later
// evaluation can be checked against the questions that were actually served.
// The store is per process: on serverless hosts an evaluation may land on a
// fresh instance and report ErrExamNotFound.
package examcoach
