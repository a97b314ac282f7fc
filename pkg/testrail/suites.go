package testrail

import "context"

// SuitesService groups test suite endpoints.
type SuitesService struct{ c *Client }

// GetSuite fetches a single test suite.
func (s *SuitesService) GetSuite(ctx context.Context, suiteID int64) *Future {
	return s.c.get(ctx, "get_suite/"+itoa(suiteID))
}

// GetSuites lists the suites of a project. The endpoint takes no filters.
func (s *SuitesService) GetSuites(ctx context.Context, projectID int64) *Future {
	return s.c.get(ctx, "get_suites/"+itoa(projectID))
}

// AddSuite creates a suite in a project.
func (s *SuitesService) AddSuite(ctx context.Context, projectID int64, params any) *Future {
	return s.c.post(ctx, "add_suite/"+itoa(projectID), params)
}

// UpdateSuite updates a suite with params.
func (s *SuitesService) UpdateSuite(ctx context.Context, suiteID int64, params any) *Future {
	return s.c.post(ctx, "update_suite/"+itoa(suiteID), params)
}

// DeleteSuite deletes a suite; the request carries no body.
func (s *SuitesService) DeleteSuite(ctx context.Context, suiteID int64) *Future {
	return s.c.post(ctx, "delete_suite/"+itoa(suiteID), nil)
}
