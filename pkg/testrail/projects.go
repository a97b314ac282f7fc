package testrail

import "context"

// ProjectsService groups project endpoints.
type ProjectsService struct{ c *Client }

// GetProject fetches a single project.
func (s *ProjectsService) GetProject(ctx context.Context, projectID int64) *Future {
	return s.c.get(ctx, "get_project/"+itoa(projectID))
}

// GetProjects lists projects, narrowed by filters such as is_completed.
func (s *ProjectsService) GetProjects(ctx context.Context, filters Filters) *Future {
	return s.c.get(ctx, applyFilters("get_projects", filters))
}

// AddProject creates a project from params.
func (s *ProjectsService) AddProject(ctx context.Context, params any) *Future {
	return s.c.post(ctx, "add_project", params)
}

// UpdateProject updates a project with params.
func (s *ProjectsService) UpdateProject(ctx context.Context, projectID int64, params any) *Future {
	return s.c.post(ctx, "update_project/"+itoa(projectID), params)
}

// DeleteProject deletes a project; the request carries no body.
func (s *ProjectsService) DeleteProject(ctx context.Context, projectID int64) *Future {
	return s.c.post(ctx, "delete_project/"+itoa(projectID), nil)
}
