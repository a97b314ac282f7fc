package testrail

import "context"

// CasesService groups test case endpoints.
type CasesService struct{ c *Client }

// GetCase fetches a single case.
func (s *CasesService) GetCase(ctx context.Context, caseID int64) *Future {
	return s.c.get(ctx, "get_case/"+itoa(caseID))
}

// GetCases lists cases of a project. suiteID and sectionID are omitted from the
// path when zero.
func (s *CasesService) GetCases(ctx context.Context, projectID, suiteID, sectionID int64, filters Filters) *Future {
	return s.c.get(ctx, applyFilters(casesPath(projectID, suiteID, sectionID), filters))
}

func casesPath(projectID, suiteID, sectionID int64) string {
	path := "get_cases/" + itoa(projectID)
	if suiteID > 0 {
		path += "&suite_id=" + itoa(suiteID)
	}
	if sectionID > 0 {
		path += "&section_id=" + itoa(sectionID)
	}
	return path
}

// AddCase creates a case in a section.
func (s *CasesService) AddCase(ctx context.Context, sectionID int64, params any) *Future {
	return s.c.post(ctx, "add_case/"+itoa(sectionID), params)
}

// UpdateCase updates a case with params. Nil params, including a nil map or
// pointer, send no body.
func (s *CasesService) UpdateCase(ctx context.Context, caseID int64, params any) *Future {
	return s.c.post(ctx, "update_case/"+itoa(caseID), params)
}

// DeleteCase deletes a case. The request carries no body.
func (s *CasesService) DeleteCase(ctx context.Context, caseID int64) *Future {
	return s.c.post(ctx, "delete_case/"+itoa(caseID), nil)
}
