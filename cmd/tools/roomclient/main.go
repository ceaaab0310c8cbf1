package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/boucegame/HumanOrNot/internal/room"
)

// roomclient is a line-oriented terminal client for manual testing against a
// running server. Commands: /start, /human, /ai, /continue, /quit; any other
// line is sent as chat.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	addr := flag.String("addr", "localhost:8080", "server host:port")
	username := flag.String("username", "", "identity to connect as (default: server-assigned guest)")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/api/ws"}
	if *username != "" {
		u.RawQuery = "username=" + url.QueryEscape(*username)
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("dial %s failed: %v", u.String(), err)
	}
	defer conn.Close()

	go func() {
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				log.Fatalf("connection closed: %v", err)
			}
			printEvent(raw)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var msg any
		switch line {
		case "/start":
			msg = room.Envelope{Type: room.TypeStart}
		case "/human":
			msg = room.GuessMessage{Type: room.TypeGuess, Choice: "human"}
		case "/ai":
			msg = room.GuessMessage{Type: room.TypeGuess, Choice: "ai"}
		case "/continue":
			msg = room.Envelope{Type: room.TypeContinue}
		case "/quit":
			return
		default:
			msg = room.ChatMessage{Type: room.TypeChat, Message: line}
		}

		if err := conn.WriteJSON(msg); err != nil {
			log.Fatalf("write failed: %v", err)
		}
	}
}

func printEvent(raw []byte) {
	var env room.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		fmt.Printf("?? %s\n", raw)
		return
	}

	switch env.Type {
	case room.TypeChat:
		var msg room.ChatMessage
		if json.Unmarshal(raw, &msg) == nil {
			fmt.Printf("[%s] %s\n", msg.SenderID, msg.Message)
			return
		}
	case room.TypeSystem:
		var msg room.SystemMessage
		if json.Unmarshal(raw, &msg) == nil {
			fmt.Printf("** %s\n", msg.Message)
			return
		}
	case room.TypeTick:
		var msg room.TickMessage
		if json.Unmarshal(raw, &msg) == nil && msg.Remaining%10 == 0 {
			fmt.Printf("** %ds left\n", msg.Remaining)
		}
		return
	case room.TypeResult:
		var msg room.ResultMessage
		if json.Unmarshal(raw, &msg) == nil {
			verdict := "WRONG"
			if msg.Correct {
				verdict = "CORRECT"
			}
			fmt.Printf("** %s! opponent was %s (+%d, total %d)\n", verdict, msg.Opponent, msg.Points, msg.Score)
			return
		}
	}

	fmt.Printf("-- %s\n", raw)
}
