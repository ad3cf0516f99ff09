package model

// Command identifies an operation a player asks the engine to perform
type Command string

const (
	CommandPlay            Command = "play"
	CommandPass            Command = "pass"
	CommandSwap            Command = "swap"
	CommandChallenge       Command = "challenge"
	CommandTakeBack        Command = "takeBack"
	CommandPause           Command = "pause"
	CommandUnpause         Command = "unpause"
	CommandConfirmGameOver Command = "confirmGameOver"
	CommandAnotherGame     Command = "anotherGame"
	CommandAllow           Command = "allow"
)

// Commands returns every command the engine accepts
func Commands() []Command {
	return []Command{
		CommandPlay, CommandPass, CommandSwap, CommandChallenge, CommandTakeBack,
		CommandPause, CommandUnpause, CommandConfirmGameOver, CommandAnotherGame, CommandAllow,
	}
}

// CommandArgs carries the arguments of every command; each handler reads
// only the fields it needs.
type CommandArgs struct {
	Move       *Move     // play
	Letters    []rune    // swap
	Challenged PlayerKey // challenge
	EndState   GameState // confirmGameOver
	Word       string    // allow
}
