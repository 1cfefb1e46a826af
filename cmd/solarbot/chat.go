package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/solartech-poc/solarbot/internal/api"
)

var chatURL string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive terminal client against a running webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := bufio.NewScanner(os.Stdin)

		fmt.Print("Numero de telefono para la sesion: ")
		if !in.Scan() {
			return nil
		}
		phone := strings.TrimSpace(in.Text())
		if phone == "" {
			return fmt.Errorf("se necesita un numero de telefono")
		}

		fmt.Println("Escribe tus mensajes. 'salir' o 'exit' para terminar.")
		client := &http.Client{Timeout: 90 * time.Second}
		for {
			fmt.Print("> ")
			if !in.Scan() {
				return in.Err()
			}
			msg := strings.TrimSpace(in.Text())
			if msg == "" {
				continue
			}
			if msg == "salir" || msg == "exit" {
				return nil
			}

			reply, err := sendTurn(client, phone, msg)
			if err != nil {
				fmt.Fprintln(os.Stderr, "error:", err)
				continue
			}
			fmt.Println(reply)
		}
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatURL, "url", "http://127.0.0.1:8000/webhook", "webhook endpoint")
}

func sendTurn(client *http.Client, phone, message string) (string, error) {
	body, err := json.Marshal(api.WebhookRequest{Phone: phone, Message: message})
	if err != nil {
		return "", err
	}

	resp, err := client.Post(chatURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out api.WebhookResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server returned status %d", resp.StatusCode)
	}
	return out.Response, nil
}
