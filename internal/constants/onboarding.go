package constants

// Domaines is the closed set of accepted onboarding domains, in display order.
var Domaines = []string{
	"Animation",
	"Coaching",
	"Déploiement",
	"Design",
	"Développement",
	"Intraprenariat",
	"Produit",
	"Autre",
}

// Statuses offered by the onboarding form.
var Statuses = []string{
	"independent",
	"admin",
	"service",
}

// AuthorsContentDir is where author profiles live in the content repository.
const AuthorsContentDir = "content/_authors"

// SessionCookieName carries the signed session of a logged-in member.
const SessionCookieName = "token"

type CachePrefix string

const (
	CachePrefixMembers  CachePrefix = "MEMBERS"
	CachePrefixStartups CachePrefix = "STARTUPS"
)
