package api

import (
	"net/http"
	"strings"

	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	projectRepo *database.ProjectRepo
}

func newProjectHandler(projectRepo *database.ProjectRepo) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		projectRepo: projectRepo,
	}
}

// getAllProjects lists projects newest first
// @Summary List projects
// @Description Paginated project list filtered by name search and tech stacks. Image bytes are omitted.
// @Tags Projects
// @Produce json
// @Param search query string false "Name search (2-200 characters)"
// @Param techStacks query string false "Comma separated tech stacks, all must match"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (1-50)" default(12)
// @Success 200 {object} database.Page[models.Project]
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid page or limit"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := listQuery(r, "techStacks")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		page, err := h.projectRepo.FindAll(r.Context(), q)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find projects", "projects", err))
			return
		}

		h.responder.WriteJSON(w, page)
	}
}

// getTechStacks lists every distinct tech stack
// @Summary List tech stacks
// @Tags Projects
// @Produce json
// @Success 200 {object} TagsResponse
// @Router /projects/tech-stacks [get]
func (h projectHandler) getTechStacks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stacks, err := h.projectRepo.TechStacks(r.Context())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tech stacks", "projects", err))
			return
		}
		h.responder.WriteJSON(w, TagsResponse{Tags: stacks})
	}
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Description Retrieves a project including its base64 image
// @Tags Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /projects/{projectID} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// createProject creates a new project
// @Summary Create project
// @Tags Admin Projects
// @Accept json
// @Produce json
// @Param project body ProjectInput true "Project data"
// @Success 201 {object} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /admin/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input ProjectInput
		if err := decodeAndValidate(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var project models.Project
		if err := applyProjectInput(&project, input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Add(r.Context(), &project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create project", "project", err))
			return
		}

		h.logger.Info().Str("projectID", project.ID.String()).Msg("project created")
		h.responder.WriteJSONStatus(w, http.StatusCreated, project)
	}
}

// updateProject replaces the fields of an existing project
// @Summary Update project
// @Description Omitting image keeps the stored image
// @Tags Admin Projects
// @Accept json
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Param project body ProjectInput true "Updated project data"
// @Success 200 {object} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid project data"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /admin/projects/{projectID} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		var input ProjectInput
		if err := decodeAndValidate(w, r, &input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project, err := h.projectRepo.FindByID(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find project", "project", err))
			return
		}
		if project == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		if err := applyProjectInput(project, input); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.Update(r.Context(), project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update project", "project", err))
			return
		}

		h.responder.WriteJSON(w, project)
	}
}

// deleteProject deletes a project by ID
// @Summary Delete project
// @Tags Admin Projects
// @Produce json
// @Param projectID path string true "Project ID" format(uuid)
// @Success 200 {object} StatusResponse
// @Failure 400 {object} ErrorResponse "Bad Request - Invalid projectID"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 500 {object} ErrorResponse "Internal Server Error"
// @Router /admin/projects/{projectID} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		projectID, err := pathID(r, "projectID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		deleted, err := h.projectRepo.Delete(r.Context(), projectID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete project", "project", err))
			return
		}
		if !deleted {
			h.responder.WriteError(w, errs.NewNotFoundError("project not found"))
			return
		}

		h.responder.WriteJSON(w, StatusResponse{Status: "success", Message: "project deleted successfully"})
	}
}

// applyProjectInput copies validated input onto project. An absent image
// leaves the stored one untouched.
func applyProjectInput(project *models.Project, input ProjectInput) error {
	startDate, err := parseDate("startDate", input.StartDate)
	if err != nil {
		return err
	}
	project.StartDate = startDate
	project.EndDate = nil
	if end := trimmedPtr(input.EndDate); end != nil {
		endDate, err := parseDate("endDate", *end)
		if err != nil {
			return err
		}
		project.EndDate = &endDate
	}

	image, imageType, err := imageUpload(input.Image, input.ImageType)
	if err != nil {
		return err
	}
	if image != nil {
		project.Image = image
		project.ImageType = imageType
	}

	project.Name = strings.TrimSpace(input.Name)
	project.ShortDesc = strings.TrimSpace(input.ShortDesc)
	project.LongDesc = trimmedPtr(input.LongDesc)
	project.StatusFlag = input.StatusFlag
	project.CollabMode = input.CollabMode
	project.Affiliation = strings.TrimSpace(input.Affiliation)
	project.AffiliationType = input.AffiliationType
	project.SourceCodeAvailability = input.SourceCodeAvailability
	project.TechStacks = strings.TrimSpace(input.TechStacks)
	project.ProjectURL = trimmedPtr(input.ProjectURL)
	project.LiveURL = trimmedPtr(input.LiveURL)

	if project.StatusFlag == models.StatusPlanning {
		project.EndDate = nil
	}
	project.HasImage = len(project.Image) > 0
	return nil
}
