package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/airbusgeo/godal"
	"github.com/common-nighthawk/go-figure"
	bannercolor "github.com/fatih/color"
	"github.com/greenpulse/greenpulse-cli/internal/notification"
	"github.com/greenpulse/greenpulse-cli/internal/properties"
	"github.com/greenpulse/greenpulse-cli/internal/ui"
	"github.com/joho/godotenv"
)

func printBanner() {
	// Print the banner with go-figure
	figure1 := figure.NewFigure("GreenPulse", "isometric1", true)
	figure2 := figure.NewFigure("CLI", "isometric1", true)
	bannercolor.Green(figure1.String())
	bannercolor.Green(figure2.String())
	fmt.Println()
}

func initCLI() {
	defer func() {
		if r := recover(); r != nil {
			// Get the function, file, and line where panic occurred
			pc, file, line, ok := runtime.Caller(3) // 3 levels up is often the panic source
			var location string
			if ok {
				fn := runtime.FuncForPC(pc)
				location = fmt.Sprintf("%s:%d in %s", file, line, fn.Name())
			} else {
				location = "Unknown location"
			}

			// Print structured error
			fmt.Printf("\n\033[31mPANIC: %v\033[0m\n", r)
			fmt.Printf("\033[31mLocation: %s\033[0m\n", location)
			fmt.Printf("\033[31mPlease check the input and try again.\033[0m\n")
			fmt.Printf("\033[31mExiting...\033[0m\n")

			// Prepare full error message
			stack := debug.Stack()
			errMessage := fmt.Sprintf("GreenPulse CLI panic:\n\n%v\n\nLocation: %s\n\nStack trace:\n%s", r, location, stack)
			err := notification.SendDiscordErrorNotification(errMessage)
			if err != nil {
				fmt.Printf("\033[31mFailed to send notification: %s\033[0m\n", err.Error())
			}
		}
	}()
	printBanner()
	ui.ShowMenu()
}

func main() {
	err := godotenv.Load(".env")
	if err != nil {
		err = godotenv.Load("../../.env")
		if err != nil {
			fmt.Printf("\033[33mNo .env file found. Using environment variables as provided.\033[0m\n")
		}
	}

	if properties.RootPath() == "" {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Printf("\033[31mFailed to resolve working directory: %s\033[0m\n", err.Error())
			os.Exit(1)
		}
		os.Setenv("ROOT_PATH", wd)
		fmt.Printf("\033[33mROOT_PATH not set. Using current directory: %s\033[0m\n", wd)
	}

	godal.RegisterAll()
	initCLI()
}
