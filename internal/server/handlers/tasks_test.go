package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskFilterFromQuery(t *testing.T) {
	boolPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name          string
		query         string
		wantErr       bool
		wantCompleted *bool
		wantLimit     int64
		wantSkip      int64
		wantSortField string
		wantSortAsc   bool
	}{
		{name: "empty query", query: ""},
		{name: "completed true", query: "completed=true", wantCompleted: boolPtr(true)},
		{name: "completed false", query: "completed=false", wantCompleted: boolPtr(false)},
		{name: "completed garbage", query: "completed=maybe", wantErr: true},
		{name: "limit and skip", query: "limit=10&skip=20", wantLimit: 10, wantSkip: 20},
		{name: "negative limit", query: "limit=-1", wantErr: true},
		{name: "limit garbage", query: "limit=ten", wantErr: true},
		{name: "negative skip", query: "skip=-1", wantErr: true},
		{name: "sort default direction", query: "sortBy=created_at", wantSortField: "created_at", wantSortAsc: true},
		{name: "sort asc", query: "sortBy=description:asc", wantSortField: "description", wantSortAsc: true},
		{name: "sort desc", query: "sortBy=completed:desc", wantSortField: "completed", wantSortAsc: false},
		{name: "sort unknown field", query: "sortBy=password", wantErr: true},
		{name: "sort bad direction", query: "sortBy=created_at:sideways", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/api/v1/tasks?"+tt.query, nil)
			filter, err := taskFilterFromQuery(r)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			if tt.wantCompleted == nil {
				assert.Nil(t, filter.Completed)
			} else {
				require.NotNil(t, filter.Completed)
				assert.Equal(t, *tt.wantCompleted, *filter.Completed)
			}
			assert.Equal(t, tt.wantLimit, filter.Limit)
			assert.Equal(t, tt.wantSkip, filter.Skip)
			assert.Equal(t, tt.wantSortField, filter.SortField)
			assert.Equal(t, tt.wantSortAsc, filter.SortAsc)
		})
	}
}
