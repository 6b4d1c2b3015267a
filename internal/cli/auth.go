package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/knowlab/knowlab-cli/internal/service"
)

var (
	loginEmail    string
	loginPassword string
	signupName    string
	googleToken   string
	otpEmail      string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if googleToken != "" {
			if err := current.auth.GoogleLogin(cmd.Context(), googleToken); err != nil {
				return err
			}
		} else {
			email, password, err := promptCredentials()
			if err != nil {
				return err
			}
			if err := current.auth.Login(cmd.Context(), email, password); err != nil {
				return err
			}
		}
		fmt.Printf("Signed in as %s\n", current.auth.Username())
		return nil
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account (an OTP is emailed for verification)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if googleToken != "" {
			if err := current.auth.GoogleSignup(cmd.Context(), googleToken); err != nil {
				return err
			}
			fmt.Printf("Signed up and logged in as %s\n", current.auth.Username())
			return nil
		}

		email, password, err := promptCredentials()
		if err != nil {
			return err
		}
		fmt.Print("Confirm password: ")
		confirm, err := readLine()
		if err != nil {
			return err
		}

		input := service.SignupInput{
			FullName:        signupName,
			Email:           email,
			Password:        password,
			ConfirmPassword: confirm,
		}
		if err := current.auth.Signup(cmd.Context(), input); err != nil {
			return err
		}
		fmt.Println("OTP sent to your email. Run `knowlab verify` to activate the account.")
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <code>",
	Short: "Verify the emailed OTP code and sign in",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.auth.VerifyOTP(cmd.Context(), otpEmail, args[0]); err != nil {
			return err
		}
		fmt.Println("Email verified, you are signed in.")
		return nil
	},
}

var resendOTPCmd = &cobra.Command{
	Use:   "resend-otp",
	Short: "Request a fresh OTP code",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.auth.ResendOTP(cmd.Context(), otpEmail); err != nil {
			return err
		}
		fmt.Println("New OTP sent to email.")
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.auth.Logout(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if current.auth.Token() == "" {
			fmt.Println("Not signed in.")
			return nil
		}
		fmt.Println(current.auth.Username())
		return nil
	},
}

func promptCredentials() (email, password string, err error) {
	if loginEmail != "" {
		email = loginEmail
	} else {
		fmt.Print("Email: ")
		if email, err = readLine(); err != nil {
			return "", "", err
		}
	}
	if loginPassword != "" {
		password = loginPassword
	} else {
		fmt.Print("Password: ")
		if password, err = readLine(); err != nil {
			return "", "", err
		}
	}
	return email, password, nil
}

func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	loginCmd.Flags().StringVar(&googleToken, "google-credential", "", "Google ID token")

	signupCmd.Flags().StringVar(&signupName, "name", "", "Full name")
	signupCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	signupCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	signupCmd.Flags().StringVar(&googleToken, "google-credential", "", "Google ID token")

	verifyCmd.Flags().StringVar(&otpEmail, "email", "", "Account email")
	resendOTPCmd.Flags().StringVar(&otpEmail, "email", "", "Account email")

	rootCmd.AddCommand(loginCmd, signupCmd, verifyCmd, resendOTPCmd, logoutCmd, whoamiCmd)
}
