package testrail

import "context"

// ResultsService groups test result endpoints.
type ResultsService struct{ c *Client }

// GetResults lists results recorded for a test.
func (s *ResultsService) GetResults(ctx context.Context, testID int64, filters Filters) *Future {
	return s.c.get(ctx, applyFilters("get_results/"+itoa(testID), filters))
}

// GetResultsForCase lists results of a case within a run.
func (s *ResultsService) GetResultsForCase(ctx context.Context, runID, caseID int64, filters Filters) *Future {
	return s.c.get(ctx, applyFilters("get_results_for_case/"+itoa(runID)+"/"+itoa(caseID), filters))
}

// GetResultsForRun lists all results of a run.
func (s *ResultsService) GetResultsForRun(ctx context.Context, runID int64, filters Filters) *Future {
	return s.c.get(ctx, applyFilters("get_results_for_run/"+itoa(runID), filters))
}

// AddResult records a result for a test.
func (s *ResultsService) AddResult(ctx context.Context, testID int64, params any) *Future {
	return s.c.post(ctx, "add_result/"+itoa(testID), params)
}

// AddResultForCase records a result for a case within a run.
//
// The request goes to add_result/{run}/{case}, not add_result_for_case.
func (s *ResultsService) AddResultForCase(ctx context.Context, runID, caseID int64, params any) *Future {
	return s.c.post(ctx, "add_result/"+itoa(runID)+"/"+itoa(caseID), params)
}

// AddResults records several test results in a run.
func (s *ResultsService) AddResults(ctx context.Context, runID int64, params any) *Future {
	return s.c.post(ctx, "add_results/"+itoa(runID), params)
}

// AddResultsForCases records several case results in a run.
func (s *ResultsService) AddResultsForCases(ctx context.Context, runID int64, params any) *Future {
	return s.c.post(ctx, "add_results_for_cases/"+itoa(runID), params)
}
