package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

var (
	orderSide  string
	orderKWH   float64
	orderPrice float64
)

// orderCmd represents the order command.
var orderCmd = &cobra.Command{
	Use:   "order",
	Short: "Place a buy or sell order on the energy market",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		account := crypto.PubkeyToAddress(privateKey.PublicKey)

		payload := struct {
			Account string  `json:"account"`
			Side    string  `json:"side"`
			KWH     float64 `json:"kwh"`
			Price   float64 `json:"price"`
		}{
			Account: account.String(),
			Side:    orderSide,
			KWH:     orderKWH,
			Price:   orderPrice,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			log.Fatal(err)
		}

		resp, err := http.Post(fmt.Sprintf("%s/v1/orders", url), "application/json", bytes.NewBuffer(data))
		if err != nil {
			log.Fatal(err)
		}
		defer resp.Body.Close()

		io.Copy(os.Stdout, resp.Body)
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(orderCmd)
	orderCmd.Flags().StringVarP(&orderSide, "side", "s", "", "Order side: Buy or Sell.")
	orderCmd.MarkFlagRequired("side")
	orderCmd.Flags().Float64VarP(&orderKWH, "kwh", "e", 0, "Energy amount in kWh.")
	orderCmd.MarkFlagRequired("kwh")
	orderCmd.Flags().Float64VarP(&orderPrice, "price", "r", 0, "Limit price in WATT per kWh.")
	orderCmd.MarkFlagRequired("price")
}
