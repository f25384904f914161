package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	customErrors "github.com/mini-maxit/runner/pkg/errors"
	"github.com/mini-maxit/runner/pkg/languages"
	"github.com/mini-maxit/runner/pkg/messages"
	"github.com/mini-maxit/runner/pkg/solution"
)

// CodeResponse is the body of a successful POST /code. PassedAll mirrors AllPassed for older clients.
type CodeResponse struct {
	PassedAll bool                  `json:"passedAll"`
	AllPassed bool                  `json:"allPassed"`
	Results   []solution.TestResult `json:"results"`
}

type contentRequest struct {
	Content json.RawMessage `json:"content"`
}

type createRequest struct {
	Name string `json:"name"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) listLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, messages.ResponseHandshakePayload{Languages: languages.GetSupportedLanguagesSpec()})
}

func (s *Server) submitCode(c *gin.Context) {
	var sub messages.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		s.abortBind(c, err)
		return
	}

	verdict, err := s.judge.RunSubmission(c.Request.Context(), sub)
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, CodeResponse{
		PassedAll: verdict.AllPassed,
		AllPassed: verdict.AllPassed,
		Results:   verdict.Results,
	})
}

func (s *Server) listProblems(c *gin.Context) {
	problems, err := s.store.ListProblems(c.Request.Context())
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"problems": problems})
}

func (s *Server) getTestCases(c *gin.Context) {
	raw, err := s.store.ReadTestCases(c.Request.Context(), c.Param("problem"))
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": string(raw)})
}

// updateTestCases accepts the record either as a JSON string or as an inline object.
func (s *Server) updateTestCases(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortBind(c, err)
		return
	}

	raw := []byte(req.Content)
	var text string
	if err := json.Unmarshal(req.Content, &text); err == nil {
		raw = []byte(text)
	}
	if len(raw) == 0 || string(raw) == "null" {
		c.AbortWithStatusJSON(http.StatusBadRequest, messages.ErrorResponse{Error: "missing content"})
		return
	}

	if err := s.store.SaveTestCases(c.Request.Context(), c.Param("problem"), raw); err != nil {
		if isRecordError(err) {
			c.AbortWithStatusJSON(http.StatusBadRequest, messages.ErrorResponse{Error: "invalid test case record", Details: err.Error()})
			return
		}
		s.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) createTestCases(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.abortBind(c, err)
			return
		}
	}

	created, err := s.store.CreateTestCases(c.Request.Context(), c.Param("problem"), req.Name)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	if !created {
		c.AbortWithStatusJSON(http.StatusConflict, messages.ErrorResponse{Error: "test cases already exist"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"created": true})
}

func (s *Server) abortBind(c *gin.Context, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, messages.ErrorResponse{Error: "request body too large"})
		return
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, messages.ErrorResponse{Error: "invalid request body", Details: err.Error()})
}

func (s *Server) abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Errorf("Request %s %s failed: %s", c.Request.Method, c.Request.URL.Path, err)
		c.AbortWithStatusJSON(status, messages.ErrorResponse{Error: "internal error", Details: err.Error()})
		return
	}
	c.AbortWithStatusJSON(status, messages.ErrorResponse{Error: err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, customErrors.ErrMissingProblem),
		errors.Is(err, customErrors.ErrUnsupportedLanguage),
		errors.Is(err, customErrors.ErrInvalidProblemName):
		return http.StatusBadRequest
	case errors.Is(err, customErrors.ErrProblemNotRunnable),
		errors.Is(err, customErrors.ErrTestCasesNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// isRecordError reports a malformed record. On the admin write path that is the caller's fault;
// while judging it means the stored record is broken and is answered with 500.
func isRecordError(err error) bool {
	return errors.Is(err, customErrors.ErrInvalidTestCases) || errors.Is(err, customErrors.ErrInvalidEntryPoint)
}
