package assistant

import "github.com/therapyai/caseload/internal/core/domain"

var milestones = []string{
	"Follow one-step directions consistently",
	"Label 20+ familiar objects spontaneously",
	"Maintain shared attention for 3+ minutes",
	"Use gestures to communicate needs",
	"Imitate simple actions and sounds",
	"Respond to name when called",
	"Show interest in social games",
	"Use eye contact during interactions",
	"Produce target sounds in isolation with 80% accuracy",
	"Use 2-word combinations spontaneously",
	"Follow 2-step directions in structured settings",
	"Maintain topic for 3+ conversational turns",
	"Use appropriate volume and rate of speech",
	"Demonstrate understanding of basic concepts (big/small, in/out)",
	"Initiate communication for requesting and commenting",
	"Use polite forms (please, thank you) appropriately",
	"Answer simple wh-questions (who, what, where)",
	"Participate in group activities for 10+ minutes",
	"Use functional communication in daily routines",
	"Demonstrate turn-taking skills in play",
	"Express basic emotions verbally",
	"Follow classroom routines independently",
	"Use appropriate pragmatic skills (greetings, eye contact)",
	"Demonstrate phonological awareness skills",
}

var strategies = []string{
	"Model short phrases during play activities",
	"Use gestures combined with verbal prompts",
	"Expand child's utterances by adding one word",
	"Wait for child's response before continuing",
	"Use visual supports to aid comprehension",
	"Create opportunities for requesting",
	"Follow child's interests during therapy",
	"Provide immediate positive reinforcement",
	"Use environmental arrangement to encourage communication",
	"Implement naturalistic teaching strategies",
	"Practice target skills in multiple contexts",
	"Use peer modeling during group activities",
	"Incorporate movement and sensory activities",
	"Use technology and apps for engagement",
	"Practice social scripts for common situations",
	"Use video modeling for skill demonstration",
	"Implement choice-making throughout sessions",
	"Use music and rhythm for speech timing",
	"Practice skills during preferred activities",
	"Use systematic prompting and fading procedures",
	"Incorporate family priorities and routines",
	"Use positive behavior support strategies",
	"Practice generalization across settings and people",
	"Use data collection for progress monitoring",
}

// Catalog returns the suggestion list for kind. Unknown kinds yield nil.
func Catalog(kind domain.GoalKind) []string {
	switch kind {
	case domain.GoalMilestones:
		return milestones
	case domain.GoalStrategies:
		return strategies
	default:
		return nil
	}
}
