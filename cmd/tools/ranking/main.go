// Command ranking renders a round standings dump as a Markdown table.
//
// The input is the JSON array the competition site exposes per round: each
// element carries the team name, the round profit, and the official place
// (null for teams the site has not placed). Teams with equal profits share
// a joint rank; rows are ordered by official place.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/backtide/backtide/internal/logger"
)

// Team is one element of the standings dump.
type Team struct {
	Team struct {
		Name string `json:"name"`
	} `json:"team"`
	Profit       float64 `json:"profit"`
	CurrentPlace *int    `json:"currentPlace"`

	jointRank int
}

// loadTeams reads and decodes a standings file.
func loadTeams(path string) ([]Team, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read standings: %w", err)
	}
	var teams []Team
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("decode standings: %w", err)
	}
	return teams, nil
}

// assignJointRanks orders teams by profit (descending, name as tiebreak)
// and gives teams with equal profits the same rank. The rank of the next
// distinct profit still counts the tied teams before it, matching how the
// official board skips places after ties.
func assignJointRanks(teams []Team) {
	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].Profit != teams[j].Profit {
			return teams[i].Profit > teams[j].Profit
		}
		return strings.ToLower(teams[i].Team.Name) < strings.ToLower(teams[j].Team.Name)
	})

	jointRank := 0
	jointProfit := 0.0
	for i := range teams {
		if i == 0 || teams[i].Profit != jointProfit {
			jointRank = i + 1
			jointProfit = teams[i].Profit
		}
		teams[i].jointRank = jointRank
	}
}

// sortByOfficialPlace orders teams by their official place. Teams without
// one are slotted in where the negative profits start, since that is where
// the board stops assigning places.
func sortByOfficialPlace(teams []Team) {
	defaultPlace := len(teams) + 1
	for _, team := range teams {
		if team.Profit < 0 && team.CurrentPlace != nil {
			defaultPlace = *team.CurrentPlace
			break
		}
	}

	place := func(t Team) int {
		if t.CurrentPlace == nil {
			return defaultPlace
		}
		return *t.CurrentPlace
	}
	sort.SliceStable(teams, func(i, j int) bool { return place(teams[i]) < place(teams[j]) })
}

// writeMarkdown prints the ranking table. Numbers use thousands separators
// like the competition site shows them.
func writeMarkdown(w io.Writer, title string, teams []Team) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "# %s (%d teams)\n", title, len(teams))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ranks are shown in official and joint format. The official rank does not have joint places for teams with equal profits, the joint rank does.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Official Rank | Joint Rank | Team | Profit |")
	fmt.Fprintln(w, "| ------------- | ---------- | ---- | ------ |")

	for _, team := range teams {
		official := "None"
		if team.CurrentPlace != nil {
			official = p.Sprintf("%d", *team.CurrentPlace)
		}
		p.Fprintf(w, "| %s | %d | %s | %.2f |\n", official, team.jointRank, team.Team.Name, team.Profit)
	}
}

func main() {
	title := flag.String("title", "Round Ranking", "Heading of the generated table")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.L().Fatal().Msg("usage: ranking [-title <heading>] <round standings json file>")
	}

	teams, err := loadTeams(flag.Arg(0))
	if err != nil {
		logger.L().Fatal().Err(err).Msg("loading standings failed")
	}

	assignJointRanks(teams)
	sortByOfficialPlace(teams)
	writeMarkdown(os.Stdout, *title, teams)
}
