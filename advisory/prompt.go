package advisory

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the analysis request sent to the text model.
func BuildPrompt(req Request) string {
	var b strings.Builder

	b.WriteString("I am running a Kelly criterion betting simulation.\n\n")
	b.WriteString("Parameters:\n")
	fmt.Fprintf(&b, "- Win rate: %.1f%%\n", req.WinProbability*100)
	fmt.Fprintf(&b, "- Decimal odds: %.2f (net odds b = %.2f)\n", req.DecimalOdds, req.DecimalOdds-1)
	fmt.Fprintf(&b, "- Kelly fraction (f*): %.2f%%\n\n", req.OptimalFraction*100)

	b.WriteString("Task: give a concise analysis (about 3 sentences) for someone learning risk management.\n")
	b.WriteString("1. Is this game worth playing? Check whether the edge is greater than 0.\n")
	b.WriteString("2. If the Kelly fraction is positive, explain why betting exactly that fraction beats going all in.\n")
	b.WriteString("3. If the Kelly fraction is zero or negative, warn firmly that the player should not play.\n\n")
	b.WriteString("Tone: educational, financially precise, easy to follow.")

	return b.String()
}
