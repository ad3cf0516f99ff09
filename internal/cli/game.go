package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/tilegame/internal/api/request"
	"github.com/mcoot/tilegame/internal/api/response"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game management commands",
	}

	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameJoinCmd())
	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameDeleteCmd())

	return cmd
}

func newGameListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result struct {
				Games []string `json:"games"`
			}

			if err := client.Get("/api/v1/games", &result); err != nil {
				return err
			}

			newOutput(cmd).PrintList(result.Games)
			return nil
		},
	}
}

func newGameDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game>",
		Short: "Delete a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(fmt.Sprintf("/api/v1/games/%s", args[0])); err != nil {
				return err
			}

			newOutput(cmd).PrintMessage(fmt.Sprintf("Deleted game %s", args[0]))
			return nil
		},
	}
}

func newGameCreateCmd() *cobra.Command {
	var (
		players []string
		start   bool
		gameCfg request.GameConfig
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game",
		Long: `Create a new game. Players are given as key or key:name, e.g.

  tilegame game create --player alice:Alice --player bob --start`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.CreateGameRequest{Config: gameCfg, Start: start}
			for _, p := range players {
				key, name, _ := strings.Cut(p, ":")
				req.Players = append(req.Players, request.PlayerSpec{Key: key, Name: name})
			}

			var result response.Game
			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&players, "player", nil, "Player as key or key:name (repeatable)")
	cmd.Flags().BoolVar(&start, "start", false, "Start the game once created")
	cmd.Flags().StringVar(&gameCfg.Edition, "edition", "", "Tile edition (default: server default)")
	cmd.Flags().StringVar(&gameCfg.Dictionary, "dictionary", "", "Dictionary used for word checks and challenges")
	cmd.Flags().StringVar(&gameCfg.WordCheck, "word-check", "", "Word check: NONE, AFTER, REJECT")
	cmd.Flags().StringVar(&gameCfg.ChallengePenalty, "penalty", "", "Challenge penalty: NONE, MISS, PER_TURN, PER_WORD")
	cmd.Flags().StringVar(&gameCfg.Timer, "timer", "", "Timer: NONE, PER_TURN, PER_GAME")
	cmd.Flags().StringVar(&gameCfg.TimeLimit, "time-limit", "", "Time limit, e.g. 2m or 25m")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game>",
		Short: "Get the state of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Get(fmt.Sprintf("/api/v1/games/%s", args[0]), &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

func newGameJoinCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "join <game>",
		Short: "Join a game that has not started",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			req := request.JoinRequest{Name: name}
			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/players", args[0]), req, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <game>",
		Short: "Deal racks and start play",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Game

			if err := client.Post(fmt.Sprintf("/api/v1/games/%s/start", args[0]), nil, &result); err != nil {
				return err
			}

			newOutput(cmd).Print(result)
			return nil
		},
	}
}

// sendCommand posts a command and prints the resulting game
func sendCommand(cmd *cobra.Command, game string, req request.CommandRequest) error {
	var result response.CommandResponse
	if err := client.Post(fmt.Sprintf("/api/v1/games/%s/commands", game), req, &result); err != nil {
		return err
	}

	newOutput(cmd).Print(result.Game)
	return nil
}

func newPlayCmd() *cobra.Command {
	var (
		placements []string
		words      []string
		score      int
	)

	cmd := &cobra.Command{
		Use:   "play <game>",
		Short: "Place tiles from your rack",
		Long: `Place tiles from your rack. Each tile is row,col,letter,score; a letter
ending in * is played from a blank. Words are word:score.

  tilegame play GAME01 --tile 7,7,C,3 --tile 7,8,A,1 --tile 7,9,T,1 --word CAT:5 --score 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			move := &request.Move{Score: score}
			for _, spec := range placements {
				p, err := parsePlacement(spec)
				if err != nil {
					return err
				}
				move.Placements = append(move.Placements, p)
			}
			for _, spec := range words {
				w, err := parseWord(spec)
				if err != nil {
					return err
				}
				move.Words = append(move.Words, w)
			}

			return sendCommand(cmd, args[0], request.CommandRequest{Command: "play", Move: move})
		},
	}

	cmd.Flags().StringArrayVar(&placements, "tile", nil, "Tile as row,col,letter,score (repeatable)")
	cmd.Flags().StringArrayVar(&words, "word", nil, "Word formed as word:score (repeatable)")
	cmd.Flags().IntVar(&score, "score", 0, "Total score of the play")
	_ = cmd.MarkFlagRequired("tile")

	return cmd
}

func parsePlacement(spec string) (request.Placement, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 4 {
		return request.Placement{}, fmt.Errorf("tile %q: want row,col,letter,score", spec)
	}
	row, err := strconv.Atoi(parts[0])
	if err != nil {
		return request.Placement{}, fmt.Errorf("tile %q: invalid row: %w", spec, err)
	}
	col, err := strconv.Atoi(parts[1])
	if err != nil {
		return request.Placement{}, fmt.Errorf("tile %q: invalid col: %w", spec, err)
	}
	score, err := strconv.Atoi(parts[3])
	if err != nil {
		return request.Placement{}, fmt.Errorf("tile %q: invalid score: %w", spec, err)
	}
	letter, blank := strings.CutSuffix(parts[2], "*")
	return request.Placement{Row: row, Col: col, Letter: strings.ToUpper(letter), Score: score, Blank: blank}, nil
}

func parseWord(spec string) (request.WordScore, error) {
	word, s, ok := strings.Cut(spec, ":")
	if !ok {
		return request.WordScore{}, fmt.Errorf("word %q: want word:score", spec)
	}
	score, err := strconv.Atoi(s)
	if err != nil {
		return request.WordScore{}, fmt.Errorf("word %q: invalid score: %w", spec, err)
	}
	return request.WordScore{Word: strings.ToUpper(word), Score: score}, nil
}

func newPassCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pass <game>",
		Short: "Pass your turn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(cmd, args[0], request.CommandRequest{Command: "pass"})
		},
	}
}

func newSwapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "swap <game> <letters>",
		Short: "Swap rack letters with the bag (? is a blank)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(cmd, args[0], request.CommandRequest{Command: "swap", Letters: strings.ToUpper(args[1])})
		},
	}
}

func newChallengeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "challenge <game> <player>",
		Short: "Challenge the words of a player's last play",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(cmd, args[0], request.CommandRequest{Command: "challenge", Challenged: args[1]})
		},
	}
}

func newTakeBackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "takeback <game>",
		Short: "Take back your last play",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(cmd, args[0], request.CommandRequest{Command: "takeBack"})
		},
	}
}

func newPauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause <game>",
		Short: "Pause the game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(cmd, args[0], request.CommandRequest{Command: "pause"})
		},
	}
}

func newUnpauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpause <game>",
		Short: "Resume a paused game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(cmd, args[0], request.CommandRequest{Command: "unpause"})
		},
	}
}

func newConfirmCmd() *cobra.Command {
	var endState string

	cmd := &cobra.Command{
		Use:   "confirm <game>",
		Short: "Confirm the game is over and settle the scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(cmd, args[0], request.CommandRequest{Command: "confirmGameOver", EndState: endState})
		},
	}

	cmd.Flags().StringVar(&endState, "end-state", "", "End state to record (default GAME_OVER)")

	return cmd
}

func newAnotherCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "another <game>",
		Short: "Start a follow-on game with the same players",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(cmd, args[0], request.CommandRequest{Command: "anotherGame"})
		},
	}
}

func newAllowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "allow <game> <word>",
		Short: "Add a word to the game dictionary",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sendCommand(cmd, args[0], request.CommandRequest{Command: "allow", Word: args[1]})
		},
	}
}
