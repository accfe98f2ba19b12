package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/op/go-logging"
	"github.com/spf13/cobra"

	"github.com/voxvault/voxvault/config"
	"github.com/voxvault/voxvault/database"
	"github.com/voxvault/voxvault/logger"
	"github.com/voxvault/voxvault/web"
	"github.com/voxvault/voxvault/web/service"
)

func initLogging() {
	switch config.GetLogLevel() {
	case config.Debug:
		logger.InitLogger(logging.DEBUG)
	case config.Info:
		logger.InitLogger(logging.INFO)
	case config.Notice:
		logger.InitLogger(logging.NOTICE)
	case config.Warn:
		logger.InitLogger(logging.WARNING)
	case config.Error:
		logger.InitLogger(logging.ERROR)
	default:
		log.Fatal("unknown log level:", config.GetLogLevel())
	}
}

func runWebServer() {
	log.Printf("%v %v", config.GetName(), config.GetVersion())
	initLogging()

	db, err := database.Open(config.GetDBPath())
	if err != nil {
		log.Fatal(err)
	}

	server := web.NewServer(db)
	if err := server.Start(); err != nil {
		log.Println(err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down")
	if err := server.Stop(); err != nil {
		logger.Warning("stop web server failed:", err)
	}
	if err := database.Close(db); err != nil {
		logger.Warning("close database failed:", err)
	}
	logger.CloseLogger()
}

// withDB opens the database for a maintenance command and closes it after.
func withDB(fn func(users *service.UserService) error) error {
	db, err := database.Open(config.GetDBPath())
	if err != nil {
		return err
	}
	defer func() {
		_ = database.Close(db)
	}()
	return fn(service.NewUserService(db))
}

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "voxvault",
		Short: "VoxVault records synthesized-audio artifacts and tracks usage",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	var username, password, email string
	var isAdmin bool

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(users *service.UserService) error {
				user, err := users.CreateUser(username, password, email)
				if err != nil {
					return err
				}
				if isAdmin {
					if err := users.SetAdmin(user.Id, true); err != nil {
						return err
					}
				}
				fmt.Printf("created user %q (id %d)\n", user.Username, user.Id)
				return nil
			})
		},
	}
	createCmd.Flags().StringVar(&username, "username", "", "account username")
	createCmd.Flags().StringVar(&password, "password", "", "account password")
	createCmd.Flags().StringVar(&email, "email", "", "account email")
	createCmd.Flags().BoolVar(&isAdmin, "admin", false, "grant admin access")

	resetCmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a user's password",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(users *service.UserService) error {
				user, err := users.GetUserByName(username)
				if err != nil {
					return err
				}
				if err := users.UpdatePassword(user.Id, password); err != nil {
					return err
				}
				fmt.Printf("password updated for %q\n", user.Username)
				return nil
			})
		},
	}
	resetCmd.Flags().StringVar(&username, "username", "", "account username")
	resetCmd.Flags().StringVar(&password, "password", "", "new password")

	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Account maintenance commands",
	}
	adminCmd.AddCommand(createCmd, resetCmd)
	rootCmd.AddCommand(adminCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
