package sources

// LanguageColors are the GitHub linguist colors shown next to the language on
// info cards.
var LanguageColors = map[string]string{
	"Assembly":   "#6E4C13",
	"C":          "#555555",
	"C#":         "#178600",
	"C++":        "#f34b7d",
	"Clojure":    "#db5855",
	"CSS":        "#563d7c",
	"Dart":       "#00B4AB",
	"Dockerfile": "#384d54",
	"Elixir":     "#6e4a7e",
	"Elm":        "#60B5CC",
	"Erlang":     "#B83998",
	"Go":         "#00ADD8",
	"GraphQL":    "#e10098",
	"Haskell":    "#5e5086",
	"HTML":       "#e34c26",
	"Java":       "#b07219",
	"JavaScript": "#f1e05a",
	"Julia":      "#a270ba",
	"Kotlin":     "#F18E33",
	"Lua":        "#000080",
	"Makefile":   "#427819",
	"Nim":        "#ffc200",
	"Nix":        "#7e7eff",
	"PHP":        "#4F5D95",
	"Perl":       "#0298c3",
	"PowerShell": "#012456",
	"Python":     "#3572A5",
	"R":          "#198CE7",
	"Ruby":       "#701516",
	"Rust":       "#dea584",
	"Scala":      "#c22d40",
	"SCSS":       "#c6538c",
	"Shell":      "#89e051",
	"Svelte":     "#ff3e00",
	"Swift":      "#ffac45",
	"TypeScript": "#2b7489",
	"Vue":        "#41586f",
	"YAML":       "#cb171e",
}
