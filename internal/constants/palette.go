package constants

// ColorPalette holds the selectable tracker colors in picker order.
var ColorPalette = []string{
	"#FD4C49", "#FF881E", "#007BFA", "#6E44FE", "#33CF69", "#E66DD4",
	"#F9D4D4", "#34A7FE", "#46E69D", "#35347C", "#FF674D", "#FF99CC",
	"#F6C48B", "#7994F5", "#832CF1", "#AD56DA", "#8D72E6", "#2FD058",
}

// EmojiPalette holds the selectable tracker emoji in picker order.
var EmojiPalette = []string{
	"🙂", "😻", "🌺", "🐶", "❤️", "😱",
	"😇", "😡", "🥶", "🤔", "🙌", "🍔",
	"🥦", "🏓", "🥇", "🎸", "🏝", "😪",
}

const (
	// Events are created without a picker step and fall back to these.
	DefaultEventColor = "#FD4C49"
	DefaultEventEmoji = "❤️"
)
