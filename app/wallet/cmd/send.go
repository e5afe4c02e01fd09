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
	sendToken  string
	sendTo     string
	sendAmount float64
)

// sendCmd represents the send command.
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send tokens to another account",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		from := crypto.PubkeyToAddress(privateKey.PublicKey)

		payload := struct {
			Token  string  `json:"token"`
			From   string  `json:"from"`
			To     string  `json:"to"`
			Amount float64 `json:"amount"`
		}{
			Token:  sendToken,
			From:   from.String(),
			To:     sendTo,
			Amount: sendAmount,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			log.Fatal(err)
		}

		resp, err := http.Post(fmt.Sprintf("%s/v1/tx/transfer", url), "application/json", bytes.NewBuffer(data))
		if err != nil {
			log.Fatal(err)
		}
		defer resp.Body.Close()

		fmt.Println("status:", resp.Status)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sendToken, "token", "k", "WATT", "Token to send: GRID or WATT.")
	sendCmd.Flags().StringVarP(&sendTo, "to", "t", "", "Account to send tokens to.")
	sendCmd.MarkFlagRequired("to")
	sendCmd.Flags().Float64VarP(&sendAmount, "amount", "a", 0, "Amount of tokens to send.")
}
