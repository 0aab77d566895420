// Package assistant is the scripted chat helper: keyword-matched canned
// replies and fixed catalogs of therapy goals. Nothing here learns or infers.
package assistant

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/therapyai/caseload/internal/core/domain"
)

type rule struct {
	keywords []string
	reply    func(c domain.Child) string
}

var rules = []rule{
	{
		keywords: []string{"articulation", "speech"},
		reply: func(c domain.Child) string {
			return fmt.Sprintf("For articulation work with %s, try these techniques: 1) Use a mirror for visual feedback, 2) Practice target sounds in isolation first, 3) Move to syllables, then words, 4) Use fun games and activities to maintain motivation.", c.Name)
		},
	},
	{
		keywords: []string{"behavior", "attention"},
		reply: func(c domain.Child) string {
			return fmt.Sprintf("For attention and behavior with %s, consider: 1) Establishing clear routines and expectations, 2) Using visual schedules, 3) Providing frequent breaks, 4) Incorporating movement breaks, 5) Using positive reinforcement strategies.", c.Name)
		},
	},
	{
		keywords: []string{"language", "vocabulary"},
		reply: func(c domain.Child) string {
			return fmt.Sprintf("To support language development with %s: 1) Model expanded language, 2) Use the 'comment, don't command' approach, 3) Read books together, 4) Narrate daily activities, 5) Give choices to encourage communication.", c.Name)
		},
	},
}

var general = []func(c domain.Child) string{
	func(c domain.Child) string {
		return fmt.Sprintf("For %s, I recommend focusing on their primary concern: %s. Try incorporating play-based activities that target this specific area.", c.Name, c.Concern)
	},
	func(c domain.Child) string {
		return fmt.Sprintf("Based on %s's age (%d years), here are some developmentally appropriate strategies you could try...", c.Name, c.AgeYears)
	},
	func(c domain.Child) string {
		return fmt.Sprintf("Consider using visual supports and hands-on activities with %s. Children at this age respond well to multi-sensory approaches.", c.Name)
	},
	func(c domain.Child) string {
		return fmt.Sprintf("It's great that you're working on this with %s. Remember to follow their lead and build on their interests to maintain engagement.", c.Name)
	},
	func(c domain.Child) string {
		return fmt.Sprintf("For speech and language development, try the 'wait time' strategy with %s. Give them extra time to process and respond.", c.Name)
	},
	func(c domain.Child) string {
		return fmt.Sprintf("Have you tried using songs or rhythmic activities with %s? Music can be very effective for speech and language goals.", c.Name)
	},
	func(c domain.Child) string {
		return fmt.Sprintf("Consider breaking down complex tasks into smaller steps for %s. This can help reduce frustration and increase success.", c.Name)
	},
}

// Responder picks canned replies and goal suggestions. It is safe for
// concurrent use.
type Responder struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewResponder returns a Responder drawing from rnd. A nil rnd uses a
// randomly seeded source.
func NewResponder(rnd *rand.Rand) *Responder {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Responder{rnd: rnd}
}

// Reply answers prompt about child. Keyword rules win over the general pool.
func (r *Responder) Reply(prompt string, child domain.Child) string {
	lower := strings.ToLower(prompt)
	for _, ru := range rules {
		for _, kw := range ru.keywords {
			if strings.Contains(lower, kw) {
				return ru.reply(child)
			}
		}
	}
	r.mu.Lock()
	i := r.rnd.IntN(len(general))
	r.mu.Unlock()
	return general[i](child)
}

// Pick returns n distinct entries from the catalog for kind, in random order.
func (r *Responder) Pick(kind domain.GoalKind, n int) []string {
	src := Catalog(kind)
	if n > len(src) {
		n = len(src)
	}
	r.mu.Lock()
	perm := r.rnd.Perm(len(src))
	r.mu.Unlock()

	out := make([]string, 0, n)
	for _, i := range perm[:n] {
		out = append(out, src[i])
	}
	return out
}
