package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestInsertedCount(t *testing.T) {
	writeErr := func(indexes ...int) mongo.BulkWriteException {
		var bwe mongo.BulkWriteException
		for _, i := range indexes {
			bwe.WriteErrors = append(bwe.WriteErrors, mongo.BulkWriteError{
				WriteError: mongo.WriteError{Index: i, Code: 11000, Message: "E11000 duplicate key error"},
			})
		}
		return bwe
	}

	tests := []struct {
		name string
		n    int
		err  error
		want int64
	}{
		{"success", 500, nil, 500},
		{"fails at first document", 500, writeErr(0), 0},
		{"fails part way", 500, writeErr(120), 120},
		{"lowest index wins", 500, writeErr(300, 42), 42},
		{"wrapped", 10, errors.Join(errors.New("insert batch"), writeErr(3)), 3},
		{"write concern only", 10, mongo.BulkWriteException{WriteConcernError: &mongo.WriteConcernError{Code: 64}}, 10},
		{"other error", 10, errors.New("connection reset"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, insertedCount(tt.n, tt.err))
		})
	}
}
