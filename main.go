package main

import (
	"bufio"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"raiddisk/Analyzer"
	"raiddisk/DiskManagement"
)

type ExecRequest struct {
	Commands string `json:"commands"`
}

type ExecResponse struct {
	Output string `json:"output"`
}

var rootCmd = &cobra.Command{
	Use:   "raiddisk",
	Short: "Administrador de discos simulados con particiones MBR/EBR y espejo RAID",
	Run: func(cmd *cobra.Command, args []string) {
		runREPL()
	},
}

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levanta el servidor HTTP del administrador",
	Run: func(cmd *cobra.Command, args []string) {
		runServer(servePort)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "3001", "Puerto del servidor HTTP")
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runREPL es el modo interactivo: lee comandos de stdin y las
// confirmaciones destructivas se responden en la misma terminal
func runREPL() {
	registry := DiskManagement.NewMountRegistry()
	scanner := bufio.NewScanner(os.Stdin)

	confirm := func(prompt string) string {
		fmt.Print(prompt)
		if !scanner.Scan() {
			return ""
		}
		return strings.ToLower(strings.TrimSpace(scanner.Text()))
	}

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "exit" {
			fmt.Println("Saliendo...")
			break
		}
		Analyzer.ProcessCommand(line, registry, os.Stdout, confirm)
	}
}

// runServer expone el analizador por HTTP. Las operaciones destructivas se
// confirman automáticamente: el front-end remoto ya pidió la confirmación.
func runServer(port string) {
	registry := DiskManagement.NewMountRegistry()
	router := gin.Default()

	router.POST("/execute", func(c *gin.Context) {
		var req ExecRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido: " + err.Error()})
			return
		}
		var out strings.Builder
		Analyzer.ProcessScript(req.Commands, registry, &out, DiskManagement.AutoConfirm)
		c.JSON(http.StatusOK, ExecResponse{Output: out.String()})
	})

	router.GET("/mounted", func(c *gin.Context) {
		var out strings.Builder
		registry.Mounted(&out)
		c.JSON(http.StatusOK, ExecResponse{Output: out.String()})
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	fmt.Println("Servidor escuchando en el puerto", port)
	if err := router.Run(":" + port); err != nil {
		fmt.Println("Error iniciando el servidor:", err)
		os.Exit(1)
	}
}
