package packager

// Stage is a step of a single Build invocation.
type Stage int

const (
	StageIdle Stage = iota
	StageBuildingManifest
	StageBuildingPage
	StageFetchingAssets
	StageArchiving
	StageDone
	StageFailed
)

var stageNames = [...]string{
	StageIdle:             "idle",
	StageBuildingManifest: "building manifest",
	StageBuildingPage:     "building page",
	StageFetchingAssets:   "fetching assets",
	StageArchiving:        "archiving",
	StageDone:             "done",
	StageFailed:           "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return "unknown"
	}
	return stageNames[s]
}

// Terminal reports whether no further transition follows s.
func (s Stage) Terminal() bool {
	return s == StageDone || s == StageFailed
}

// StageCount is the number of non-terminal working stages, used to size
// progress displays.
const StageCount = int(StageDone)

// Observer is notified of every stage transition.
type Observer func(Stage)
