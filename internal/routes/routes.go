package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/atendimento-scheduler/internal/audit"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/auth"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/blob"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/config"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/handlers"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/lock"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/logger"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/middleware"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/store"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/account"
	ucAppointment "github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/auditlog"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/catalog"
	ucClient "github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/client"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/establishment"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/media"
	ucServiceRecord "github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/servicerecord"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/settings"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/usecase/staff"
	"github.com/BruksfildServices01/atendimento-scheduler/internal/validators"
)

// Deps reúne a infraestrutura já montada pelo main.
type Deps struct {
	Config   *config.Config
	Gateway  *store.Gateway
	Locker   lock.Locker
	Storage  blob.Storage
	Audit    *audit.Dispatcher
	Tokens   *auth.Issuer
	Resolver validators.Resolver
	Log      *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	log := logger.OrNop(d.Log)
	gw := d.Gateway

	// ======================================================
	// 🌍 MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(
		middleware.RequestLogger(log),
		middleware.Recovery(log),
		middleware.CORSMiddleware(d.Config.CORSOrigins),
	)

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	uploader := media.NewUploader(d.Storage, log)

	// ======================================================
	// 🧠 USE CASES: APPOINTMENTS
	// ======================================================
	appointmentUC := handlers.AppointmentUseCases{
		Create:   ucAppointment.NewCreateAppointment(gw, d.Locker, d.Audit, log),
		Edit:     ucAppointment.NewEditAppointment(gw, d.Locker, d.Audit),
		Cancel:   ucAppointment.NewCancelAppointment(gw, d.Audit),
		Complete: ucAppointment.NewCompleteAppointment(gw, d.Audit),
		Delete:   ucAppointment.NewDeleteAppointment(gw, d.Audit),
		ByDate:   ucAppointment.NewListAppointmentsByDate(gw),
		ByMonth:  ucAppointment.NewListAppointmentsByMonth(gw),
		Message:  ucAppointment.NewRenderMessage(gw),
		Convert:  ucServiceRecord.NewConvertAppointment(gw, d.Audit, log),
	}

	// ======================================================
	// 🧠 USE CASES: ATENDIMENTOS
	// ======================================================
	serviceRecordUC := handlers.ServiceRecordUseCases{
		Get:            ucServiceRecord.NewGetServiceRecord(gw),
		List:           ucServiceRecord.NewListServiceRecords(gw),
		CreateDirect:   ucServiceRecord.NewCreateDirect(gw, d.Audit, log),
		UpdateServices: ucServiceRecord.NewUpdateServices(gw, d.Config.ResnapshotPricesOnEdit, d.Audit, log),
		UpdateStaff:    ucServiceRecord.NewUpdateStaff(gw, d.Audit, log),
		Finalize:       ucServiceRecord.NewFinalize(gw, d.Audit, log),
		Cancel:         ucServiceRecord.NewCancel(gw, d.Audit, log),
	}

	// ======================================================
	// 🧩 HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(account.NewAccounts(gw, d.Tokens, d.Resolver, d.Audit, log))
	establishmentHandler := handlers.NewEstablishmentHandler(establishment.NewProfile(gw, uploader, d.Audit))
	serviceHandler := handlers.NewServiceHandler(
		catalog.NewServices(gw, d.Audit),
		catalog.NewImportServices(gw, d.Audit, log),
	)
	staffHandler := handlers.NewStaffHandler(staff.NewDirectory(gw, uploader, d.Audit, log))
	appointmentHandler := handlers.NewAppointmentHandler(appointmentUC, gw)
	serviceRecordHandler := handlers.NewServiceRecordHandler(serviceRecordUC)
	templateHandler := handlers.NewTemplateHandler(settings.NewMessageTemplate(gw, d.Audit))
	clientHandler := handlers.NewClientHandler(ucClient.NewListClients(gw))
	auditLogsHandler := handlers.NewAuditLogsHandler(auditlog.NewListAuditLogs(gw))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// 🌐 API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// 🔐 AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		api.GET("/business-lines", handlers.ListBusinessLines)

		// ------------------------------
		// 🔐 API PRIVADA
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(d.Tokens))
		{
			secured.GET("", authHandler.Me)

			secured.GET("/establishment", establishmentHandler.Get)
			secured.PATCH("/establishment", establishmentHandler.Update)
			secured.POST("/establishment/logo", establishmentHandler.UploadLogo)

			// ------------------------------
			// SERVICES
			// ------------------------------
			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.POST("/services/import", serviceHandler.Import)
			secured.PATCH("/services/:id", serviceHandler.Update)
			secured.DELETE("/services/:id", serviceHandler.Delete)

			// ------------------------------
			// STAFF
			// ------------------------------
			secured.GET("/staff", staffHandler.List)
			secured.POST("/staff", staffHandler.Create)
			secured.PATCH("/staff/:id", staffHandler.Update)
			secured.DELETE("/staff/:id", staffHandler.Delete)
			secured.PUT("/staff/:id/preferences", staffHandler.SetPreferences)
			secured.POST("/staff/:id/photo", staffHandler.UploadPhoto)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments", appointmentHandler.ListByDate)
			secured.GET("/appointments/month", appointmentHandler.ListByMonth)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.PATCH("/appointments/:id", appointmentHandler.Update)
			secured.PATCH("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id/complete", appointmentHandler.Complete)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)
			secured.GET("/appointments/:id/message", appointmentHandler.Message)
			secured.GET("/appointments/:id/service-record", appointmentHandler.ServiceRecord)
			secured.POST("/appointments/:id/service-record", appointmentHandler.Convert)

			// ------------------------------
			// SERVICE RECORDS
			// ------------------------------
			secured.GET("/service-records", serviceRecordHandler.List)
			secured.POST("/service-records", serviceRecordHandler.CreateDirect)
			secured.GET("/service-records/:id", serviceRecordHandler.Get)
			secured.PUT("/service-records/:id/services", serviceRecordHandler.ReplaceServices)
			secured.PUT("/service-records/:id/staff", serviceRecordHandler.ReplaceStaff)
			secured.PATCH("/service-records/:id/finalize", serviceRecordHandler.Finalize)
			secured.PATCH("/service-records/:id/cancel", serviceRecordHandler.Cancel)

			secured.GET("/message-template", templateHandler.Get)
			secured.PUT("/message-template", templateHandler.Save)
			secured.DELETE("/message-template", templateHandler.Reset)

			secured.GET("/clients", clientHandler.List)
			secured.GET("/clients/stats", clientHandler.Stats)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
