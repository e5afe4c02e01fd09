package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	prosumerName string
	prosumerType string
)

// registerCmd represents the register command.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register your account as a market prosumer",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		account := crypto.PubkeyToAddress(privateKey.PublicKey)

		payload := struct {
			Account string `json:"account"`
			Name    string `json:"name"`
			Type    string `json:"type"`
		}{
			Account: account.String(),
			Name:    prosumerName,
			Type:    prosumerType,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			log.Fatal(err)
		}

		resp, err := http.Post(fmt.Sprintf("%s/v1/prosumers", url), "application/json", bytes.NewBuffer(data))
		if err != nil {
			log.Fatal(err)
		}
		defer resp.Body.Close()

		fmt.Println("status:", resp.Status)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
	registerCmd.Flags().StringVarP(&prosumerName, "name", "n", "", "Display name for the prosumer.")
	registerCmd.MarkFlagRequired("name")
	registerCmd.Flags().StringVarP(&prosumerType, "type", "t", "Residential", "Prosumer type: Residential, Commercial, Industrial, Consumer.")
}
