package service

import (
	"time"

	"github.com/therapyai/caseload/internal/core/domain"
)

type seedAccount struct {
	name       string
	email      string
	password   string
	createdAgo time.Duration
}

type seedChild struct {
	therapist  int
	name       string
	dob        string
	category   string
	concern    string
	guardian   string
	notes      string
	milestones []string
	strategies []string
	updatedAgo time.Duration
}

type seedTurn struct {
	from    domain.Sender
	text    string
	daysAgo time.Duration
	offset  time.Duration
}

var seedAdmin = seedAccount{name: "Dr. Amanda Richardson", email: "admin@demo.com", password: "admin123"}

var seedTherapists = []seedAccount{
	{name: "Sarah Lewis", email: "therapist@demo.com", password: "therapist123"},
	{name: "Dr. Michael Chen", email: "michael.chen@demo.com", password: "therapist456", createdAgo: 15 * day},
	{name: "Jessica Martinez", email: "jessica.martinez@demo.com", password: "therapist789", createdAgo: 30 * day},
}

var seedChildren = []seedChild{
	{
		therapist: 0,
		name:      "Emma Johnson",
		dob:       "2018-03-15",
		category:  "Communication",
		concern:   "Speech delay and articulation difficulties with /r/ and /s/ sounds",
		guardian:  "Jennifer Johnson (mother), Phone: (555) 123-4567",
		notes:     "Emma is a bright and curious child who enjoys books, puzzles, and art activities. She has difficulty with /r/ and /s/ sounds but shows good motivation during therapy. Responds well to visual cues and games. Family is very supportive and practices at home.",
		milestones: []string{
			"Produce /r/ sound in isolation with 80% accuracy",
			"Use /r/ in initial position words (red, run, rabbit) with visual cues",
			"Maintain eye contact during structured speaking tasks",
			"Follow 2-step directions consistently in therapy setting",
		},
		strategies: []string{
			"Use mirror work for visual feedback during /r/ production",
			"Incorporate favorite books for /r/ sound practice",
			"Practice with high-frequency /r/ words in play contexts",
			"Use hand cues to prompt tongue positioning for /r/ sound",
		},
		updatedAgo: 2 * day,
	},
	{
		therapist: 0,
		name:      "Aiden Chen",
		dob:       "2019-07-22",
		category:  "Social",
		concern:   "Language development delays, limited expressive vocabulary, difficulty with social communication",
		guardian:  "David Chen (father) and Lisa Chen (mother), Phone: (555) 987-6543",
		notes:     "Aiden is making steady progress with expressive language. He enjoys sensory play and responds well to routine-based activities. Shows emerging joint attention skills. Parents report increased communication attempts at home.",
		milestones: []string{
			"Expand expressive vocabulary to 50+ functional words",
			"Use 2-word combinations spontaneously (more cookie, want toy)",
			"Maintain joint attention for 5+ minutes during preferred activities",
			"Initiate communication for requesting and commenting",
		},
		strategies: []string{
			"Use routine-based language intervention during snack time",
			"Model 2-word phrases and wait for imitation",
			"Incorporate sensory play to increase engagement",
			"Practice turn-taking with cause-effect toys",
		},
		updatedAgo: 1 * day,
	},
	{
		therapist: 0,
		name:      "Sophia Rodriguez",
		dob:       "2020-11-08",
		category:  "Fine Motor",
		concern:   "Childhood apraxia of speech, oral motor difficulties",
		guardian:  "Maria Rodriguez (mother), Carlos Rodriguez (father), Phone: (555) 456-7890",
		notes:     "Sophia presents with suspected childhood apraxia of speech. She has difficulty with motor planning for speech sounds. Very engaged and motivated child who loves music and movement activities. Family is bilingual (Spanish/English).",
		milestones: []string{
			"Produce CV syllables (ma, ba, pa) with consistent voicing",
			"Imitate simple oral motor movements (lip rounding, tongue protrusion)",
			"Use gestures and signs to communicate basic needs",
			"Vocalize during preferred activities and social interactions",
		},
		strategies: []string{
			"Use PROMPT techniques for oral motor facilitation",
			"Incorporate music and rhythm for speech timing",
			"Practice oral motor exercises before speech attempts",
			"Use multimodal communication (speech + gesture + sign)",
		},
		updatedAgo: 3 * day,
	},
	{
		therapist: 1,
		name:      "Lucas Thompson",
		dob:       "2017-09-12",
		category:  "Communication",
		concern:   "Stuttering and fluency disorders, secondary behaviors developing",
		guardian:  "Rebecca Thompson (mother), James Thompson (father), Phone: (555) 234-5678",
		notes:     "Lucas began showing disfluencies around age 4. He exhibits repetitions and prolongations, with some awareness developing. Very articulate when fluent. Enjoys sports and building activities.",
		milestones: []string{
			"Reduce secondary behaviors (eye blinking, head movements)",
			"Use easy onset techniques in structured conversations",
			"Increase awareness of speech rate and breathing",
			"Maintain fluency in 5-minute conversations",
		},
		strategies: []string{
			"Practice slow, easy speech with family activities",
			"Use breathing exercises before speaking tasks",
			"Implement pausing strategies in conversation",
			"Build confidence through successful speaking experiences",
		},
		updatedAgo: 5 * day,
	},
	{
		therapist: 1,
		name:      "Olivia Park",
		dob:       "2019-01-30",
		category:  "Communication",
		concern:   "Phonological processes, multiple sound errors affecting intelligibility",
		guardian:  "Susan Park (mother), Phone: (555) 345-6789",
		notes:     "Olivia presents with several phonological processes including fronting, stopping, and cluster reduction. She is highly motivated and enjoys interactive games. Single mother very involved in therapy goals.",
		milestones: []string{
			"Eliminate fronting pattern (say /k/ and /g/ correctly)",
			"Reduce stopping of fricatives (/f/, /s/, /sh/ sounds)",
			"Improve overall speech intelligibility to 80% with unfamiliar listeners",
			"Use target sounds in connected speech",
		},
		strategies: []string{
			"Use minimal pairs therapy for sound contrasts",
			"Practice target sounds in games and play",
			"Provide auditory bombardment of target sounds",
			"Use tactile cues for sound placement",
		},
		updatedAgo: 4 * day,
	},
	{
		therapist: 2,
		name:      "Ethan Williams",
		dob:       "2018-06-18",
		category:  "Gross Motor",
		concern:   "Language comprehension delays, difficulty following multi-step directions",
		guardian:  "Michelle Williams (mother), Robert Williams (father), Phone: (555) 567-8901",
		notes:     "Ethan has strong social skills but struggles with language comprehension. He benefits from visual supports and structured routines. Family reports similar challenges at home with following directions.",
		milestones: []string{
			"Follow 3-step directions with visual supports",
			"Understand spatial concepts (in, on, under, beside)",
			"Respond to wh-questions (who, what, where) appropriately",
			"Demonstrate understanding of time concepts (first, then, last)",
		},
		strategies: []string{
			"Use visual schedules and picture supports",
			"Break down directions into smaller steps",
			"Practice comprehension through interactive books",
			"Use repetition and rephrasing for clarity",
		},
		updatedAgo: 6 * day,
	},
	{
		therapist: 2,
		name:      "Mia Davis",
		dob:       "2020-04-25",
		category:  "Social",
		concern:   "Late talker, limited vocabulary, minimal phrase production",
		guardian:  "Amanda Davis (mother), Phone: (555) 678-9012",
		notes:     "Mia is a late talker with a vocabulary of approximately 25 words. She uses gestures effectively and has good non-verbal communication skills. Mother is very engaged and implements home strategies consistently.",
		milestones: []string{
			"Expand vocabulary to 100+ words across categories",
			"Use 2-3 word phrases for requesting and commenting",
			"Imitate new words during structured play",
			"Use words spontaneously in daily routines",
		},
		strategies: []string{
			"Model target vocabulary during play routines",
			"Use environmental arrangement to encourage communication",
			"Practice new words through repetitive play activities",
			"Implement mand training for requesting",
		},
		updatedAgo: 7 * day,
	},
}

// seedTranscripts holds the pre-scripted conversations, keyed by child name.
var seedTranscripts = map[string][]seedTurn{
	"Emma Johnson": {
		{from: domain.SenderTherapist, daysAgo: 5, text: "How can I help Emma with her /r/ sound production? She seems to be struggling with tongue placement."},
		{from: domain.SenderAI, daysAgo: 5, offset: 60 * time.Second, text: "For /r/ sound production, try these evidence-based strategies: 1) Use the \"scoop\" cue - tell Emma to make her tongue into a scoop, 2) Practice with high-frequency /r/ words like \"red\", \"run\", \"car\", 3) Use tactile feedback by having her feel throat vibration, 4) Try the \"growling dog\" analogy for the retroflex /r/. Start with isolated sounds before moving to syllables."},
		{from: domain.SenderTherapist, daysAgo: 4, text: "Emma loves books and puzzles. How can I incorporate these interests into /r/ practice?"},
		{from: domain.SenderAI, daysAgo: 4, offset: 120 * time.Second, text: "Perfect! Since Emma enjoys books and puzzles, try: 1) \"I Spy\" games with /r/ words in picture books, 2) Create puzzle pieces with /r/ words written on them, 3) Read stories emphasizing /r/ sounds with dramatic voice, 4) Art activities naming /r/ colors (red, orange, purple), 5) Treasure hunts for /r/ objects. This maintains engagement while targeting speech goals."},
		{from: domain.SenderTherapist, daysAgo: 3, text: "What home practice activities should I suggest to Emma's mom?"},
		{from: domain.SenderAI, daysAgo: 3, offset: 180 * time.Second, text: "For home practice, suggest these family-friendly activities: 1) \"R words at dinner\" - find /r/ foods (rice, carrots, berries), 2) Car ride games - spot /r/ words on signs, 3) Bedtime stories with /r/ emphasis, 4) Kitchen helper - stir, pour, prepare while saying /r/ words, 5) Mirror practice 5 minutes daily. Keep it fun and pressure-free!"},
		{from: domain.SenderTherapist, daysAgo: 2, text: "Emma is making progress with /r/ in isolation but struggling in words. How do I bridge this gap?"},
		{from: domain.SenderAI, daysAgo: 2, offset: 300 * time.Second, text: "This is a common challenge! Try these bridging techniques: 1) Use carrier phrases \"I see a ___\" with /r/ words, 2) Practice /r/ + vowel combinations (ra, re, ri, ro, ru), 3) Use backward chaining - start with word endings she can do, 4) Slow motion speech - elongate the /r/ in words, 5) Visual cues - hand gestures for tongue position. Be patient, this transition takes time!"},
		{from: domain.SenderTherapist, daysAgo: 1, text: "Should I work on /s/ sounds with Emma too, or focus just on /r/?"},
		{from: domain.SenderAI, daysAgo: 1, offset: 240 * time.Second, text: "Great question! I recommend focusing primarily on /r/ since it's typically more challenging and she's showing progress. However, you can do some /s/ work: 1) Use minimal pairs (wace/race), 2) Do /s/ warm-ups before /r/ practice, 3) If Emma masters /r/ quickly, then increase /s/ focus. The key is not overwhelming her with too many targets simultaneously."},
	},
	"Aiden Chen": {
		{from: domain.SenderTherapist, daysAgo: 4, text: "Aiden is struggling with turn-taking during play activities. Any evidence-based strategies?"},
		{from: domain.SenderAI, daysAgo: 4, offset: 90 * time.Second, text: "For turn-taking with Aiden, try these research-backed strategies: 1) Visual turn-taking cards or timers, 2) Start with highly motivating activities (cause-effect toys), 3) Use songs with natural pauses for turns, 4) Model \"my turn, your turn\" language consistently, 5) Begin with very short turns (2-3 seconds) and gradually increase. The key is starting with his interests!"},
		{from: domain.SenderTherapist, daysAgo: 3, text: "How can I work on joint attention skills during our sessions?"},
		{from: domain.SenderAI, daysAgo: 3, offset: 150 * time.Second, text: "Joint attention is crucial for Aiden's development! Try: 1) Follow his gaze and comment on what he's looking at, 2) Use animated expressions and voices with toys, 3) Create \"wow\" moments with cause-effect toys, 4) Point to and label objects together, 5) Use books with flaps and interactive elements, 6) Play games that require shared focus (bubbles, peek-a-boo). Start where his attention naturally goes!"},
		{from: domain.SenderTherapist, daysAgo: 2, text: "Aiden's parents want to know how to encourage more communication attempts at home."},
		{from: domain.SenderAI, daysAgo: 2, offset: 200 * time.Second, text: "Excellent parent involvement! Suggest these naturalistic strategies: 1) Environmental arrangement - put favorite items in sight but out of reach, 2) Pause and wait during routines (dressing, eating), 3) Offer choices throughout the day, 4) Imitate his sounds and gestures, 5) Narrate daily activities, 6) Use expectant waiting with raised eyebrows. The goal is creating natural communication opportunities!"},
		{from: domain.SenderTherapist, daysAgo: 1, text: "What are some good activities for expanding Aiden's vocabulary during snack time?"},
		{from: domain.SenderAI, daysAgo: 1, offset: 180 * time.Second, text: "Snack time is perfect for language learning! Try: 1) Offer choices \"apple or crackers?\", 2) Practice action words (pour, dip, bite, chew), 3) Describe properties (hot, cold, crunchy, sweet), 4) Count items, 5) Use core words (more, all done, want), 6) Create routines with consistent language, 7) Make it social - talk about who, what, where. Keep it natural and fun!"},
	},
	"Sophia Rodriguez": {
		{from: domain.SenderTherapist, daysAgo: 3, text: "Sophia may have childhood apraxia of speech. What are the key assessment indicators I should document?"},
		{from: domain.SenderAI, daysAgo: 3, offset: 120 * time.Second, text: "Key CAS indicators to document: 1) Inconsistent errors on repeated productions, 2) Difficulty with voluntary vs automatic speech, 3) Groping behaviors or silent posturing, 4) Prosodic disturbances (stress, rhythm), 5) Limited phonetic inventory, 6) Slow DDK rates, 7) Better performance with shorter utterances. Use ASHA's CAS technical report for comprehensive assessment guidelines."},
		{from: domain.SenderTherapist, daysAgo: 2, text: "What treatment approaches work best for suspected CAS in preschoolers?"},
		{from: domain.SenderAI, daysAgo: 2, offset: 240 * time.Second, text: "For preschool CAS, consider: 1) PROMPT - provides tactile-kinesthetic cues, 2) Integral Stimulation - \"watch me, listen to me, do what I do\", 3) ReST (Rapid Syllable Transitions), 4) Dynamic Temporal and Tactile Cueing, 5) Multimodal communication (speech + gesture + AAC), 6) High practice frequency with shorter, frequent sessions. Focus on functional, meaningful words first!"},
		{from: domain.SenderTherapist, daysAgo: 1, text: "How do I incorporate Sophia's love of music into therapy sessions?"},
		{from: domain.SenderAI, daysAgo: 1, offset: 160 * time.Second, text: "Music is fantastic for CAS! Try: 1) Rhythmic speech - practice syllables to steady beats, 2) Melodic intonation therapy principles, 3) Songs with repetitive lyrics, 4) Clapping while speaking, 5) Use familiar tunes with target words, 6) Instruments for timing and rhythm, 7) Movement + speech combinations. Music provides external timing cues that can facilitate motor planning!"},
	},
	"Lucas Thompson": {
		{from: domain.SenderTherapist, daysAgo: 4, text: "Lucas is developing secondary behaviors with his stuttering. How do I address these sensitively?"},
		{from: domain.SenderAI, daysAgo: 4, offset: 180 * time.Second, text: "Secondary behaviors indicate increased awareness and tension. Address by: 1) Acknowledge without drawing excess attention, 2) Focus on easy, relaxed speech, 3) Teach coping strategies (slow speech, breathing), 4) Build confidence through successful experiences, 5) Educate parents about not correcting or rushing, 6) Consider counseling component. The goal is reducing struggle and tension, not just fluency."},
		{from: domain.SenderTherapist, daysAgo: 2, text: "What fluency techniques work best for school-age children like Lucas?"},
		{from: domain.SenderAI, daysAgo: 2, offset: 220 * time.Second, text: "For school-age stuttering, try: 1) Easy onset - gentle start to speech, 2) Light articulatory contacts, 3) Continuous airflow techniques, 4) Slower rate with natural pauses, 5) Self-monitoring strategies, 6) Voluntary stuttering to reduce fear, 7) Cognitive strategies for confidence building. Focus on techniques he can use independently in real situations."},
	},
}
