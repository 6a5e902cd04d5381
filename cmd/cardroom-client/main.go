package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/room"
	"github.com/cardroom/holdem/internal/server"
)

var CLI struct {
	Server   string `short:"s" long:"server" default:"http://localhost:8080" help:"Server URL to connect to"`
	Name     string `short:"n" long:"name" help:"Player name"`
	LogLevel string `short:"l" long:"log-level" default:"error" help:"Log level"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 2).
			Bold(true)
	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)
	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#74B9FF"))
	potStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)
	cardRedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
	cardBlackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Bold(true)
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))
)

func main() {
	kctx := kong.Parse(&CLI)

	logger := log.New(os.Stderr)
	switch CLI.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	default:
		logger.SetLevel(log.ErrorLevel)
	}

	name := CLI.Name
	if name == "" {
		fmt.Print("Enter your player name: ")
		var input string
		_, _ = fmt.Scanln(&input)
		name = strings.TrimSpace(input)
		if name == "" {
			fmt.Println("Player name is required")
			kctx.Exit(1)
		}
	}

	conn, err := dial(CLI.Server)
	if err != nil {
		fmt.Printf("Failed to connect: %v\n", err)
		kctx.Exit(1)
	}
	defer func() { _ = conn.Close() }()

	if err := send(conn, server.MessageTypeAuth, server.AuthData{Identity: name, Name: name}); err != nil {
		fmt.Printf("Failed to authenticate: %v\n", err)
		kctx.Exit(1)
	}

	done := make(chan struct{})
	go readLoop(conn, name, logger, done)

	fmt.Println(headerStyle.Render(" Cardroom "))
	fmt.Println(dimStyle.Render("Commands: create, join <code>, leave, list, start, advance, state,"))
	fmt.Println(dimStyle.Render("  check, bet <n>, call, raise <n>, allin, fold, buy <chips>, quit"))

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		if err := dispatch(conn, line); err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
		}
		select {
		case <-done:
			fmt.Println(dimStyle.Render("connection closed"))
			return
		default:
		}
	}
}

// dial connects to the server's /ws endpoint, mapping http schemes onto
// websocket schemes.
func dial(serverURL string) (*websocket.Conn, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	}
	u.Path = "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return conn, nil
}

func send(conn *websocket.Conn, msgType server.MessageType, payload any) error {
	msg, err := server.NewMessage(msgType, payload)
	if err != nil {
		return err
	}
	return conn.WriteJSON(msg)
}

func dispatch(conn *websocket.Conn, line string) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "create":
		return send(conn, server.MessageTypeCreateRoom, nil)
	case "join":
		if len(args) != 1 {
			return fmt.Errorf("usage: join <code>")
		}
		return send(conn, server.MessageTypeJoinRoom, server.JoinRoomData{RoomID: args[0]})
	case "leave":
		return send(conn, server.MessageTypeLeaveRoom, nil)
	case "list":
		return send(conn, server.MessageTypeListRooms, nil)
	case "start":
		return send(conn, server.MessageTypeStartHand, nil)
	case "advance":
		return send(conn, server.MessageTypeAdvance, nil)
	case "state":
		return send(conn, server.MessageTypeState, nil)
	case "buy":
		if len(args) != 1 {
			return fmt.Errorf("usage: buy <chips>")
		}
		chips, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("usage: buy <chips>")
		}
		return send(conn, server.MessageTypeBuyChips, server.BuyChipsData{Chips: chips})
	case "check", "call", "fold", "allin", "all-in":
		return send(conn, server.MessageTypeAction, server.ActionData{Action: strings.ReplaceAll(cmd, "-", "")})
	case "bet", "raise":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <amount>", cmd)
		}
		amount, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("usage: %s <amount>", cmd)
		}
		return send(conn, server.MessageTypeAction, server.ActionData{Action: cmd, Amount: amount})
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// eventEnvelope mirrors server.EventData with the payload left raw so
// each event can pick its own shape.
type eventEnvelope struct {
	RoomID string          `json:"roomId,omitempty"`
	Event  string          `json:"event"`
	Data   json.RawMessage `json:"data,omitempty"`
}

func readLoop(conn *websocket.Conn, name string, logger *log.Logger, done chan struct{}) {
	defer close(done)
	for {
		var msg server.Message
		if err := conn.ReadJSON(&msg); err != nil {
			logger.Debug("read failed", "error", err)
			return
		}
		render(&msg, name)
	}
}

func render(msg *server.Message, name string) {
	switch msg.Type {
	case server.MessageTypeAuthResponse:
		var data server.AuthResponseData
		if err := json.Unmarshal(msg.Data, &data); err == nil && data.Success {
			fmt.Printf("Authenticated as %s\n", data.Identity)
		}

	case server.MessageTypeRoomCreated:
		var data server.RoomCreatedData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			fmt.Printf("Room created: %s\n", winnerStyle.Render(data.RoomID))
		}

	case server.MessageTypeRoomJoined:
		var data server.RoomJoinedData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			fmt.Printf("Joined room %s\n", data.RoomID)
		}

	case server.MessageTypeRoomLeft:
		fmt.Println("Left room")

	case server.MessageTypeRoomList:
		var rooms []room.Info
		if err := json.Unmarshal(msg.Data, &rooms); err != nil {
			return
		}
		if len(rooms) == 0 {
			fmt.Println(dimStyle.Render("no open rooms"))
			return
		}
		for _, info := range rooms {
			fmt.Printf("%s  %d/%d players  %s\n", info.ID, info.Players, info.Capacity, info.Stage)
		}

	case server.MessageTypeRoomState:
		var snap game.Snapshot
		if err := json.Unmarshal(msg.Data, &snap); err == nil {
			renderSnapshot(&snap, name)
		}

	case server.MessageTypeEvent:
		var env eventEnvelope
		if err := json.Unmarshal(msg.Data, &env); err == nil {
			renderEvent(&env)
		}

	case server.MessageTypeError:
		var data server.ErrorData
		if err := json.Unmarshal(msg.Data, &data); err == nil {
			fmt.Println(errorStyle.Render(fmt.Sprintf("error: %s (%s)", data.Message, data.Code)))
		}
	}
}

func renderEvent(env *eventEnvelope) {
	switch env.Event {
	case "seat_joined":
		var data struct {
			Player string `json:"player"`
			Name   string `json:"name"`
		}
		if err := json.Unmarshal(env.Data, &data); err == nil {
			fmt.Printf("%s joined the table\n", data.Player)
		}

	case "seat_left":
		var data struct {
			Player string `json:"player"`
		}
		if err := json.Unmarshal(env.Data, &data); err == nil {
			fmt.Printf("%s left the table\n", data.Player)
		}

	case "hand_started":
		fmt.Println(headerStyle.Render("*** NEW HAND ***"))

	case "hole_cards":
		var data struct {
			Cards []string `json:"cards"`
		}
		if err := json.Unmarshal(env.Data, &data); err == nil {
			fmt.Printf("Dealt to you: %s\n", formatCards(data.Cards))
		}

	case "action":
		renderAction(env.Data)

	case "settlement":
		var s settlementView
		if err := json.Unmarshal(env.Data, &s); err == nil {
			renderSettlement(&s)
		}

	case "chips_bought", "chips_refilled":
		var data struct {
			Chips int `json:"chips"`
			Cost  int `json:"cost"`
		}
		if err := json.Unmarshal(env.Data, &data); err == nil {
			fmt.Printf("Received %d chips for %d coins\n", data.Chips, data.Cost)
		}

	default:
		fmt.Println(dimStyle.Render(env.Event))
	}
}

func renderAction(raw json.RawMessage) {
	var data struct {
		Player string `json:"player"`
		Action string `json:"action"`
		Paid   int    `json:"paid"`
		Stages []struct {
			Stage string   `json:"stage"`
			Dealt []string `json:"dealt"`
		} `json:"stages"`
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return
	}

	text := fmt.Sprintf("%s: %s", data.Player, data.Action)
	if data.Paid > 0 {
		text += fmt.Sprintf(" $%d", data.Paid)
	}
	fmt.Println(actionStyle.Render(text))

	for _, stage := range data.Stages {
		header := fmt.Sprintf("*** %s ***", strings.ToUpper(stage.Stage))
		if len(stage.Dealt) > 0 {
			fmt.Printf("%s %s\n", headerStyle.Render(header), formatCards(stage.Dealt))
		} else {
			fmt.Println(headerStyle.Render(header))
		}
	}
}

type settlementView struct {
	Awards []struct {
		Amount  int            `json:"amount"`
		Winners []string       `json:"winners"`
		Payouts map[string]int `json:"payouts"`
	} `json:"awards"`
	EarlyWin bool              `json:"early_win"`
	Board    []string          `json:"board"`
	Ranks    map[string]string `json:"ranks"`
	Best     map[string]string `json:"best"`
}

func renderSettlement(s *settlementView) {
	if !s.EarlyWin {
		fmt.Println(headerStyle.Render("*** SHOWDOWN ***"))
		if len(s.Board) > 0 {
			fmt.Printf("Final board: %s\n", formatCards(s.Board))
		}
		for player, rank := range s.Ranks {
			fmt.Printf("%s shows %s\n", player, rank)
		}
	}
	for _, award := range s.Awards {
		for player, amount := range award.Payouts {
			fmt.Println(winnerStyle.Render(fmt.Sprintf("%s wins $%d", player, amount)))
		}
	}
}

func renderSnapshot(snap *game.Snapshot, name string) {
	fmt.Printf("Room %s  %s  Pot: %s\n", snap.ID, snap.Stage, potStyle.Render(fmt.Sprintf("$%d", snap.Pot)))
	if len(snap.Board) > 0 {
		board := make([]string, len(snap.Board))
		for i, c := range snap.Board {
			board[i] = c.String()
		}
		fmt.Printf("Board: %s\n", formatCards(board))
	}
	for i, seat := range snap.Seats {
		var tags []string
		if seat.Dealer {
			tags = append(tags, "BTN")
		}
		if seat.SmallBlind {
			tags = append(tags, "SB")
		}
		if seat.BigBlind {
			tags = append(tags, "BB")
		}
		if seat.Folded {
			tags = append(tags, "folded")
		}
		if seat.AllIn {
			tags = append(tags, "all-in")
		}
		line := fmt.Sprintf("Seat %d: %s $%d", i, seat.Name, seat.Chips)
		if seat.RoundBet > 0 {
			line += fmt.Sprintf(" (bet $%d)", seat.RoundBet)
		}
		if len(tags) > 0 {
			line += " " + dimStyle.Render(strings.Join(tags, " "))
		}
		if len(seat.HoleCards) > 0 && seat.Identity == name {
			cards := make([]string, len(seat.HoleCards))
			for j, c := range seat.HoleCards {
				cards[j] = c.String()
			}
			line += " " + formatCards(cards)
		}
		if i == snap.Acting {
			line = actionStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		fmt.Println(line)
	}
}

// formatCards renders cards in brackets with red suits highlighted.
func formatCards(cards []string) string {
	formatted := make([]string, 0, len(cards))
	for _, card := range cards {
		if strings.ContainsAny(card, "♥♦") {
			formatted = append(formatted, cardRedStyle.Render(card))
		} else {
			formatted = append(formatted, cardBlackStyle.Render(card))
		}
	}
	return "[" + strings.Join(formatted, " ") + "]"
}
