package cmd

import (
	"fmt"
	"log"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"
)

// addressCmd represents the address command.
var addressCmd = &cobra.Command{
	Use:   "address",
	Short: "Print your account address",
	Run: func(cmd *cobra.Command, args []string) {
		privateKey, err := crypto.LoadECDSA(getPrivateKeyPath())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(crypto.PubkeyToAddress(privateKey.PublicKey))
	},
}

func init() {
	rootCmd.AddCommand(addressCmd)
}
