// internal/config/tuning.go
package config

// Tuning externalizes every heuristic constant of the breakdown pipeline so
// the classifiers can be unit-tested against fixed configs independent of the
// default tuning. Bump Version when any default changes.
type Tuning struct {
	Version string

	Segmenter   SegmenterTuning
	Classifier  ClassifierTuning
	Identity    IdentityTuning
	Props       PropTuning
	Genre       GenreTuning
	Protagonist ProtagonistTuning
	Threads     ThreadTuning
	Normalizer  NormalizerTuning
}

// SegmenterTuning controls slugline detection.
type SegmenterTuning struct {
	// MinViableLength is the minimum rune count below which the input is a
	// structural failure rather than a parseable script.
	MinViableLength int

	// IntTokens and ExtTokens accept localized spellings of the scene-heading
	// prefix. Matching is case-insensitive on the token before the first dot
	// or space.
	IntTokens []string
	ExtTokens []string

	// TimeOfDay maps localized time tokens onto the normalized enum value.
	TimeOfDay map[string]string
}

// ClassifierTuning controls the per-scene line state machine.
type ClassifierTuning struct {
	// CueMaxLen is the character-cue length ceiling.
	CueMaxLen int
	// ProseLineMin: a line at least this long ends dialogue mode, it is
	// heuristically prose rather than speech.
	ProseLineMin int
	// ContinuityMarkers are stripped from cues before storage.
	ContinuityMarkers []string
	// Transitions end dialogue mode and revert to ACTION.
	Transitions []string
	// CueBlacklist rejects scene-heading keywords, draft metadata, and
	// generic crowd labels that would otherwise parse as cues.
	CueBlacklist []string
}

// IdentityTuning controls character identity resolution.
type IdentityTuning struct {
	// NameBlacklist rejects candidates that are scene-heading tokens,
	// time-of-day words, or revision metadata.
	NameBlacklist []string
	// KnownCharacters holds caller-supplied names already known to be
	// characters. They bypass the rejection rules below; empty by default,
	// set per run from the request.
	KnownCharacters []string
	// LocationDisguiseMinScenes / MaxDialogue: an identity present in more
	// than MinScenes scenes with fewer than MaxDialogue dialogue lines is
	// almost always a slugline fragment misread as a cue and is removed.
	LocationDisguiseMinScenes int
	LocationDisguiseMaxLines  int
}

// PropTuning carries the categorized prop lexicon. Extraction is lexicon
// driven so that prop output stays deterministic and evidence-backed.
type PropTuning struct {
	// Categories maps a category name onto the lowercase words matched as
	// whole words in action and dialogue text.
	Categories map[string][]string
}

// GenreKeywords holds one genre's keyword tiers.
type GenreKeywords struct {
	High   []string
	Medium []string
	Low    []string
}

// GenreTuning controls keyword scoring and the ordered override rules.
type GenreTuning struct {
	Keywords map[string]GenreKeywords

	HighWeight   int
	MediumWeight int
	LowWeight    int
	// LowTierCap bounds the total points one low-tier keyword may
	// contribute, so common words cannot run away with the score.
	LowTierCap int

	// MinScore: below this the winner defaults to drama.
	MinScore     int
	DefaultGenre string

	// Override rule thresholds, applied in the fixed order of rules 1-6.
	// The ratio rules compare a runner-up against the current winner, so the
	// ratios sit below 1.
	ThrillerOverComedyAbs    int     // rule 1: thriller absolute floor
	ThrillerOverComedyRatio  float64 // rule 1: thriller as fraction of comedy
	DramaUnderActionRatio    float64 // rule 2: drama non-trivial vs action
	ComedyDramaTolerance     float64 // rule 3: |comedy-drama| relative band
	RomanceOverComedyRatio   float64 // rule 4: romance as fraction of comedy
	SciFiAbsBar              int     // rule 5: sci-fi absolute bar
	SciFiRatio               float64 // rule 5: sci-fi as fraction of winner
	ActionHighBar            int     // rule 6: action absolute bar
}

// ProtagonistTuning carries the weighted-signal formula. The weights are part
// of the classification contract, not incidental.
type ProtagonistTuning struct {
	DialogueShareWeight float64 // dialogue_lines / total_dialogue_lines
	WordCountWeight     float64 // word_count / max word_count
	ScenePresenceWeight float64 // scenes_present / total_scenes
	FirstSceneWeight    float64
	LastSceneWeight     float64
	TurningPointWeight  float64
	AllSignalsBonus     float64

	BaseConfidence    float64
	GapBoostFactor    float64 // confidence gain per unit of rank1-rank2 gap
	SignalBoost       float64 // per structural signal on the winner
	EnsembleTolerance float64 // rank1-rank3 spread below this marks ensemble
	EnsembleMaxConf   float64
}

// ThreadTuning controls narrative thread inference.
type ThreadTuning struct {
	// MinEvidenceScenes: a thread cited by fewer distinct scenes is noise.
	MinEvidenceScenes int
	// MinSharedScenes: two characters must co-occur in at least this many
	// scenes before a relationship thread is inferred.
	MinSharedScenes int
}

// NormalizerTuning controls the final shaping pass.
type NormalizerTuning struct {
	TitleMaxWords  int
	TitleMaxChars  int
	TitleScanLines int

	// FeatureSceneCount: documents with at least this many scenes are
	// feature-length and expected to carry MinPropsFeature props; shorter
	// documents require MinPropsShort.
	FeatureSceneCount int
	MinPropsFeature   int
	MinPropsShort     int

	// VoicePatterns bucket voices_and_functional; RoleLabelWords bucket
	// featured_extras_with_lines. Both are English-specific role heuristics;
	// unrecognized names default to cast.
	VoicePatterns  []string
	RoleLabelWords []string
}

// DefaultTuning returns the tuning the pipeline ships with.
func DefaultTuning() Tuning {
	return Tuning{
		Version: "2026.2",

		Segmenter: SegmenterTuning{
			MinViableLength: 280,
			IntTokens:       []string{"INT", "INT.", "INTERIOR", "I/E", "I/E.", "INT/EXT", "INT/EXT."},
			ExtTokens:       []string{"EXT", "EXT.", "EXTERIOR", "EXTERIEUR", "EXTÉRIEUR"},
			TimeOfDay: map[string]string{
				"DAY":        "DAY",
				"DIA":        "DAY",
				"DÍA":        "DAY",
				"JOUR":       "DAY",
				"NIGHT":      "NIGHT",
				"NOCHE":      "NIGHT",
				"NUIT":       "NIGHT",
				"MORNING":    "MORNING",
				"MAÑANA":     "MORNING",
				"MATIN":      "MORNING",
				"EVENING":    "EVENING",
				"TARDE":      "EVENING",
				"SOIR":       "EVENING",
				"DAWN":       "DAWN",
				"AMANECER":   "DAWN",
				"DUSK":       "DUSK",
				"ATARDECER":  "DUSK",
				"CONTINUOUS": "CONTINUOUS",
				"CONTINUO":   "CONTINUOUS",
				"LATER":      "LATER",
				"DESPUES":    "LATER",
				"DESPUÉS":    "LATER",
			},
		},

		Classifier: ClassifierTuning{
			CueMaxLen:    40,
			ProseLineMin: 120,
			ContinuityMarkers: []string{
				"(V.O.)", "(O.S.)", "(O.C.)", "(CONT'D)", "(CONT’D)",
				"(CONTINUED)", "(VOICE OVER)", "(OFF SCREEN)", "(ON PHONE)",
				"(FILTERED)", "(SUBTITLED)",
			},
			Transitions: []string{
				"CUT TO:", "CUT TO", "FADE IN:", "FADE IN", "FADE OUT.",
				"FADE OUT", "FADE TO BLACK", "DISSOLVE TO:", "DISSOLVE TO",
				"SMASH CUT TO:", "MATCH CUT TO:", "JUMP CUT TO:",
				"INTERCUT", "END OF ACT", "THE END",
			},
			CueBlacklist: []string{
				"INT", "EXT", "INTERIOR", "EXTERIOR", "CONTINUED", "OMITTED",
				"TITLE", "SUPER", "CHYRON", "MONTAGE", "SERIES OF SHOTS",
				"FLASHBACK", "END FLASHBACK", "DREAM SEQUENCE",
				"FIRST DRAFT", "SECOND DRAFT", "FINAL DRAFT", "REVISION",
				"REVISED", "SHOOTING SCRIPT", "WHITE", "BLUE", "PINK",
				"CROWD", "EVERYONE", "ALL", "TOGETHER", "VARIOUS",
			},
		},

		Identity: IdentityTuning{
			NameBlacklist: []string{
				"INT", "EXT", "INTERIOR", "EXTERIOR", "DAY", "NIGHT",
				"MORNING", "EVENING", "DAWN", "DUSK", "LATER", "CONTINUOUS",
				"NOCHE", "DIA", "NUIT", "JOUR",
				"CONTINUED", "OMITTED", "REVISED", "DRAFT", "SCENE",
				"CUT", "FADE", "DISSOLVE", "ANGLE", "CLOSE", "WIDE",
				"POV", "INSERT", "BACK", "END",
			},
			LocationDisguiseMinScenes: 10,
			LocationDisguiseMaxLines:  5,
		},

		Props: PropTuning{
			Categories: map[string][]string{
				"weapon": {
					"gun", "pistol", "rifle", "shotgun", "revolver", "knife",
					"blade", "sword", "grenade", "bomb", "detonator", "axe",
				},
				"vehicle": {
					"car", "truck", "van", "motorcycle", "bike", "bus",
					"helicopter", "plane", "boat", "train", "taxi", "ambulance",
				},
				"document": {
					"letter", "envelope", "file", "folder", "map", "photograph",
					"photo", "passport", "contract", "notebook", "diary", "ledger",
				},
				"electronics": {
					"phone", "cellphone", "laptop", "computer", "camera", "radio",
					"television", "recorder", "walkie-talkie", "flashlight", "drone",
				},
				"valuables": {
					"money", "cash", "briefcase", "suitcase", "necklace", "ring",
					"watch", "diamond", "painting", "safe",
				},
				"consumable": {
					"cigarette", "whiskey", "wine", "beer", "coffee", "pills",
					"syringe", "bottle",
				},
				"key_object": {
					"key", "keys", "keycard", "badge", "lighter", "rope",
					"handcuffs", "umbrella", "mask", "crowbar",
				},
			},
		},

		Genre: GenreTuning{
			Keywords: map[string]GenreKeywords{
				"action": {
					High:   []string{"explosion", "explosions", "gunfire", "shootout", "grenade", "detonator"},
					Medium: []string{"chase", "punch", "fight", "weapon", "rifle", "pistol", "helicopter", "ambush"},
					Low:    []string{"gun", "run", "fast", "blood", "hit", "crash"},
				},
				"comedy": {
					High:   []string{"hilarious", "punchline", "slapstick"},
					Medium: []string{"laughs", "laughing", "joke", "jokes", "awkward", "ridiculous", "prank"},
					Low:    []string{"funny", "laugh", "smile", "grin", "silly"},
				},
				"drama": {
					High:   []string{"funeral", "custody", "diagnosis", "estranged"},
					Medium: []string{"divorce", "grief", "regret", "betrayal", "forgiveness", "confession", "reconcile"},
					Low:    []string{"tears", "cry", "family", "father", "mother", "silence", "alone"},
				},
				"thriller": {
					High:   []string{"stalker", "hostage", "ransom", "conspiracy", "assassin"},
					Medium: []string{"threat", "surveillance", "suspect", "detective", "kidnap", "blackmail", "pursuit"},
					Low:    []string{"dark", "fear", "hide", "watch", "follow", "danger"},
				},
				"horror": {
					High:   []string{"possessed", "exorcism", "demonic", "mutilated"},
					Medium: []string{"scream", "corpse", "haunted", "ritual", "creature", "shadow figure"},
					Low:    []string{"blood", "night", "dark", "cold", "whisper"},
				},
				"romance": {
					High:   []string{"soulmate", "wedding vows", "love letter"},
					Medium: []string{"kiss", "kisses", "romantic", "date", "proposal", "heartbreak", "embrace"},
					Low:    []string{"love", "heart", "beautiful", "touch", "smile"},
				},
				"scifi": {
					High:   []string{"starship", "wormhole", "android", "terraform", "cryosleep"},
					Medium: []string{"spacecraft", "alien", "robot", "laser", "colony", "orbit", "mutation"},
					Low:    []string{"space", "future", "machine", "signal", "screen"},
				},
			},
			HighWeight:   5,
			MediumWeight: 2,
			LowWeight:    1,
			LowTierCap:   8,
			MinScore:     12,
			DefaultGenre: "drama",

			ThrillerOverComedyAbs:   25,
			ThrillerOverComedyRatio: 0.8,
			DramaUnderActionRatio:   0.7,
			ComedyDramaTolerance:    0.1,
			RomanceOverComedyRatio:  0.9,
			SciFiAbsBar:             30,
			SciFiRatio:              0.9,
			ActionHighBar:           45,
		},

		Protagonist: ProtagonistTuning{
			DialogueShareWeight: 0.30,
			WordCountWeight:     0.20,
			ScenePresenceWeight: 0.15,
			FirstSceneWeight:    0.12,
			LastSceneWeight:     0.10,
			TurningPointWeight:  0.08,
			AllSignalsBonus:     0.15,

			BaseConfidence:    0.5,
			GapBoostFactor:    2.0,
			SignalBoost:       0.05,
			EnsembleTolerance: 0.06,
			EnsembleMaxConf:   0.45,
		},

		Threads: ThreadTuning{
			MinEvidenceScenes: 2,
			MinSharedScenes:   3,
		},

		Normalizer: NormalizerTuning{
			TitleMaxWords:  12,
			TitleMaxChars:  80,
			TitleScanLines: 25,

			FeatureSceneCount: 80,
			MinPropsFeature:   8,
			MinPropsShort:     4,

			VoicePatterns: []string{
				"VOICE", "V.O.", "NARRATOR", "ANNOUNCER", "P.A.", "PA SYSTEM",
				"RADIO", "TV", "OPERATOR", "DISPATCHER", "GPS", "INTERCOM",
				"ON PHONE", "COMPUTER",
			},
			RoleLabelWords: []string{
				"GUARD", "OFFICER", "COP", "POLICEMAN", "POLICEWOMAN",
				"NURSE", "DOCTOR", "WAITER", "WAITRESS", "BARTENDER",
				"DRIVER", "PILOT", "SOLDIER", "AGENT", "RECEPTIONIST",
				"TEACHER", "STUDENT", "REPORTER", "PHOTOGRAPHER", "CLERK",
				"SECRETARY", "JANITOR", "SECURITY", "PARAMEDIC", "FIREMAN",
				"JUDGE", "LAWYER", "DETECTIVE", "SERGEANT", "CAPTAIN",
				"MAN", "WOMAN", "BOY", "GIRL", "KID", "OLD MAN", "OLD WOMAN",
			},
		},
	}
}
