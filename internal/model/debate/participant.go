package debate

import (
	"errors"
	"fmt"
	"strings"
)

// Role distinguishes the moderator from ordinary debate members.
type Role string

const (
	RoleModerator Role = "moderator"
	RoleMember    Role = "member"
)

// Participant captures one debater exposed to the frontend.
type Participant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Persona  string `json:"persona"` // free text steering generation
	Avatar   string `json:"avatar"`  // short display label
	IsCustom bool   `json:"isCustom,omitempty"`
}

// Moderator returns the roster's moderator, if present.
func Moderator(participants []Participant) (Participant, bool) {
	for _, p := range participants {
		if p.Role == RoleModerator {
			return p, true
		}
	}
	return Participant{}, false
}

// Members returns every non-moderator participant in roster order.
func Members(participants []Participant) []Participant {
	members := make([]Participant, 0, len(participants))
	for _, p := range participants {
		if p.Role == RoleMember {
			members = append(members, p)
		}
	}
	return members
}

// FindParticipant looks up a participant by identifier.
func FindParticipant(participants []Participant, id string) (Participant, bool) {
	for _, p := range participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// ValidateRoster checks the structural rules every roster must satisfy:
// exactly one moderator, unique non-empty ids, non-empty names. Member count
// is checked separately at debate start, not here, so a roster can be edited
// through intermediate shapes.
func ValidateRoster(participants []Participant) error {
	if len(participants) == 0 {
		return errors.New("roster is empty")
	}

	moderators := 0
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if strings.TrimSpace(p.ID) == "" {
			return errors.New("participant id is required")
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("participant %s has no name", p.ID)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("duplicate participant id %s", p.ID)
		}
		seen[p.ID] = struct{}{}

		switch p.Role {
		case RoleModerator:
			moderators++
		case RoleMember:
		default:
			return fmt.Errorf("participant %s has unknown role %q", p.ID, p.Role)
		}
	}
	if moderators != 1 {
		return fmt.Errorf("roster needs exactly one moderator, found %d", moderators)
	}
	return nil
}

// DefaultTopic opens the default debate among the seeded mathematicians.
const DefaultTopic = "A new conjecture on prime numbers: Every even integer greater than 2 is the sum of two primes (Goldbach Conjecture), but what if we consider its implications for hyper-primes in a non-Euclidean geometric space?"

// Seed provides the built-in roster used until the user edits it.
func Seed() []Participant {
	return []Participant{
		{
			ID:      "moderator",
			Name:    "Moderator",
			Role:    RoleModerator,
			Avatar:  "M",
			Persona: "You are a neutral, intelligent, and insightful AI moderator for a debate among historical mathematicians. Your role is to guide the discussion, ensure it stays on topic, summarize key points, and select the next speaker in a fair and logical manner. You must be concise and objective.",
		},
		{
			ID:      "pierre_de_fermat",
			Name:    "Pierre de Fermat",
			Role:    RoleMember,
			Avatar:  "PF",
			Persona: "You are Pierre de Fermat, the 17th-century French mathematician. You are known for your pioneering work in number theory. You are brilliant but famously secretive and often state your theorems without proof, claiming the margin is too small to contain it. Your tone should be slightly mysterious, confident, and focused on the elegance and purity of numbers.",
		},
		{
			ID:      "leonhard_euler",
			Name:    "Leonhard Euler",
			Role:    RoleMember,
			Avatar:  "LE",
			Persona: "You are Leonhard Euler, the 18th-century Swiss mathematician. You are one of the most prolific mathematicians in history, with contributions to almost every area of mathematics. You are methodical, rigorous, and have a knack for finding connections between different fields. Your arguments should be clear, well-structured, and demonstrate your vast knowledge.",
		},
		{
			ID:      "carl_friedrich_gauss",
			Name:    "Carl Friedrich Gauss",
			Role:    RoleMember,
			Avatar:  "CG",
			Persona: "You are Carl Friedrich Gauss, the 19th-century German mathematician, often called the \"Prince of Mathematicians.\" You have a reputation for perfectionism and a deep, almost intuitive understanding of mathematical structures. Your insights are profound and often ahead of their time. Your tone should be authoritative, precise, and deeply intellectual.",
		},
	}
}
