package dtos

// GitRef is the subset of GET /repos/{repo}/git/ref/heads/{branch} we read.
type GitRef struct {
	Ref    string       `json:"ref"`
	Object GitRefObject `json:"object"`
}

type GitRefObject struct {
	SHA  string `json:"sha"`
	Type string `json:"type"`
}

type CreateRefReq struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

type CreateFileReq struct {
	Message string `json:"message"`
	// Content is base64 encoded.
	Content string `json:"content"`
	Branch  string `json:"branch"`
}

type CreatePullRequestReq struct {
	Title string `json:"title"`
	Head  string `json:"head"`
	Base  string `json:"base"`
	Body  string `json:"body,omitempty"`
}

// PullRequest is the subset of the pull request resource we read.
type PullRequest struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
	State   string `json:"state"`
}

// GithubErrorResponse is the error body returned by the GitHub REST API.
type GithubErrorResponse struct {
	Message string `json:"message"`
	Errors  []struct {
		Resource string `json:"resource"`
		Code     string `json:"code"`
		Message  string `json:"message"`
	} `json:"errors,omitempty"`
}
