package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/version"

	mwopts "github.com/Shreeshail-sp/docsearch/pkg/options/middleware"
	"github.com/Shreeshail-sp/docsearch/pkg/utils/response"
)

// VersionResponse represents the version endpoint response.
type VersionResponse struct {
	ServiceName  string `json:"service_name,omitempty"`
	GitVersion   string `json:"git_version"`
	GitCommit    string `json:"git_commit,omitempty"`
	GitBranch    string `json:"git_branch,omitempty"`
	GitTreeState string `json:"git_tree_state,omitempty"`
	BuildDate    string `json:"build_date,omitempty"`
	GoVersion    string `json:"go_version,omitempty"`
	Compiler     string `json:"compiler,omitempty"`
	Platform     string `json:"platform,omitempty"`
}

// RegisterVersionRoutes registers the version endpoint.
func RegisterVersionRoutes(r gin.IRoutes, opts *mwopts.VersionOptions) {
	if opts == nil || !opts.Enabled {
		return
	}
	path := opts.Path
	if path == "" {
		path = "/version"
	}

	r.GET(path, func(c *gin.Context) {
		info := version.Get()
		resp := VersionResponse{GitVersion: info.GitVersion}
		if !opts.HideDetails {
			resp.ServiceName = info.ServiceName
			resp.GitCommit = info.GitCommit
			resp.GitBranch = info.GitBranch
			resp.GitTreeState = info.GitTreeState
			resp.BuildDate = info.BuildDate
			resp.GoVersion = info.GoVersion
			resp.Compiler = info.Compiler
			resp.Platform = info.Platform
		}
		c.JSON(http.StatusOK, response.Success(resp).WithRequestID(GetRequestID(c.Request.Context())))
	})
}
