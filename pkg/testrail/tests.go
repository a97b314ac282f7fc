package testrail

import "context"

// TestsService groups endpoints for tests, the per-run instances of cases.
type TestsService struct{ c *Client }

// GetTest fetches a single test.
func (s *TestsService) GetTest(ctx context.Context, testID int64) *Future {
	return s.c.get(ctx, "get_test/"+itoa(testID))
}

// GetTests lists the tests of a run.
func (s *TestsService) GetTests(ctx context.Context, runID int64, filters Filters) *Future {
	return s.c.get(ctx, applyFilters("get_tests/"+itoa(runID), filters))
}
