package dtos

// Member is an entry of the community authors.json feed.
type Member struct {
	ID       string    `json:"id"`
	Fullname string    `json:"fullname"`
	Role     string    `json:"role"`
	Github   string    `json:"github,omitempty"`
	Missions []Mission `json:"missions,omitempty"`
	// Start, End and Employer are flattened from the latest mission by the feed.
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
	Employer string `json:"employer,omitempty"`
}

type Mission struct {
	Start    string `json:"start"`
	End      string `json:"end,omitempty"`
	Status   string `json:"status,omitempty"`
	Employer string `json:"employer,omitempty"`
}

// Startup is an entry of the community startups.json feed.
type Startup struct {
	ID         string            `json:"id"`
	Attributes StartupAttributes `json:"attributes"`
}

type StartupAttributes struct {
	Name  string `json:"name"`
	Pitch string `json:"pitch,omitempty"`
}

// StartupsResponse wraps startups.json, which is a JSON:API document.
type StartupsResponse struct {
	Data []Startup `json:"data"`
}
