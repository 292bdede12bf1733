package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/govindrajpootecosoul/trackflow/service/dao"
)

func TestFilterByStatus(t *testing.T) {
	testCases := []struct {
		name       string
		status     string
		parameters []*dao.Parameter
		expect     bool
	}{
		{
			name:   "no parameters matches",
			status: "COMPLETED",
			expect: true,
		},
		{
			name:       "equality match",
			status:     "COMPLETED",
			parameters: []*dao.Parameter{dao.NewParameter("Status", "COMPLETED")},
			expect:     true,
		},
		{
			name:       "equality mismatch",
			status:     "IN_PROGRESS",
			parameters: []*dao.Parameter{dao.NewParameter("Status", "COMPLETED")},
			expect:     false,
		},
		{
			name:       "negation excludes",
			status:     "COMPLETED",
			parameters: []*dao.Parameter{dao.NewParameter("Status", "!COMPLETED")},
			expect:     false,
		},
		{
			name:       "negation passes others",
			status:     "ON_HOLD",
			parameters: []*dao.Parameter{dao.NewParameter("Status", "!COMPLETED")},
			expect:     true,
		},
		{
			name:       "multi value any-of",
			status:     "ON_HOLD",
			parameters: []*dao.Parameter{dao.NewParameter("Status", "YTS", "ON_HOLD")},
			expect:     true,
		},
		{
			name:       "unknown parameter ignored",
			status:     "YTS",
			parameters: []*dao.Parameter{dao.NewParameter("Owner", "u1")},
			expect:     true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, FilterByStatus(tc.status, tc.parameters))
		})
	}
}
