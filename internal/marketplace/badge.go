package marketplace

// Badge is a trust or verification tag attached to a worker.
type Badge string

const (
	BadgeGovernmentVerified   Badge = "government-verified"
	BadgeProfessionalVerified Badge = "professional-verified"
	BadgeCommunityTrusted     Badge = "community-trusted"
	BadgeBackgroundChecked    Badge = "background-checked"
	BadgeTopRated             Badge = "top-rated"
)

// BadgeDescriptor holds what a presentation layer needs to render a badge.
type BadgeDescriptor struct {
	Label   string `json:"label"`
	Icon    string `json:"icon"`
	Color   string `json:"color"`
	Tooltip string `json:"tooltip"`
}

var badgeDescriptors = map[Badge]BadgeDescriptor{
	BadgeGovernmentVerified: {
		Label:   "Government Verified",
		Icon:    "shield-check",
		Color:   "blue",
		Tooltip: "Identity verified against a government-issued ID",
	},
	BadgeProfessionalVerified: {
		Label:   "Professional Verified",
		Icon:    "briefcase",
		Color:   "purple",
		Tooltip: "Licenses and professional credentials checked",
	},
	BadgeCommunityTrusted: {
		Label:   "Community Trusted",
		Icon:    "users",
		Color:   "green",
		Tooltip: "Vouched for by other members of the community",
	},
	BadgeBackgroundChecked: {
		Label:   "Background Checked",
		Icon:    "file-search",
		Color:   "teal",
		Tooltip: "Passed a third-party background check",
	},
	BadgeTopRated: {
		Label:   "Top Rated",
		Icon:    "star",
		Color:   "amber",
		Tooltip: "Consistently rated 4.8 or higher by clients",
	},
}

// Badges returns the badge enum in display order.
func Badges() []Badge {
	return []Badge{
		BadgeGovernmentVerified,
		BadgeProfessionalVerified,
		BadgeCommunityTrusted,
		BadgeBackgroundChecked,
		BadgeTopRated,
	}
}

func (b Badge) Valid() bool {
	_, ok := badgeDescriptors[b]
	return ok
}

// BadgeInfo returns the display descriptor for b. Unknown tags return false.
func BadgeInfo(b Badge) (BadgeDescriptor, bool) {
	d, ok := badgeDescriptors[b]
	return d, ok
}
